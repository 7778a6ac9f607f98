// Package lifecycle manages installed versions after download: making a
// version the active one, removing versions, and pruning old installs.
// The active copy lives in a stable per-product directory so PATH never
// has to change when versions do.
package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/inventory"
	"github.com/praxis-tools/pvm/pkg/version"
)

var (
	// ErrNotInstalled means the selector matched nothing on disk.
	ErrNotInstalled = errors.New("version is not installed")

	// ErrActiveProtected guards the in-use version from accidental
	// deletion. Force overrides it.
	ErrActiveProtected = errors.New("version is currently active (use --force to remove it anyway)")

	// ErrBadKeepCount rejects purge retention counts below one.
	ErrBadKeepCount = errors.New("keep count must be at least 1")
)

// AmbiguousSelectorError is returned when a removal selector is a
// prefix of more than one installed version. Removal never guesses.
type AmbiguousSelectorError struct {
	Selector   string
	Candidates []string
}

func (e *AmbiguousSelectorError) Error() string {
	return fmt.Sprintf("%q matches %d installed versions (%s); use an exact version",
		e.Selector, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Outcome describes a removal or purge batch. Failures are recorded
// per version so one stubborn directory does not abort the rest.
type Outcome struct {
	Product       string
	Removed       []string
	Kept          []string
	Failed        map[string]error
	ActiveRemoved bool
	Warnings      []string
}

// Activation describes a completed version switch.
type Activation struct {
	Product  string
	Version  string
	Dir      string
	PathHint string // one-time PATH setup guidance, empty when none needed
	Warnings []string
}

// Verifier re-checks which version answers the probe after a switch.
// A mismatch is reported as a warning, not rolled back: the copy on
// disk is correct and the usual cause is a stale shell PATH.
type Verifier interface {
	Detect(p config.Product) (string, bool)
}

// Engine performs lifecycle operations under a single install root.
type Engine struct {
	root     string
	verifier Verifier

	// removeAll is swappable so tests can simulate deletion failures.
	removeAll func(string) error
}

func NewEngine(root string) *Engine {
	return &Engine{root: root, removeAll: os.RemoveAll}
}

// NewEngineWithVerifier adds post-activation verification.
func NewEngineWithVerifier(root string, v Verifier) *Engine {
	e := NewEngine(root)
	e.verifier = v
	return e
}

// Activate makes the selected installed version the active one by
// replacing the stable active directory with a copy of it. An empty
// selector picks the newest installed version; a prefix picks the
// newest match.
func (e *Engine) Activate(p config.Product, selector string) (*Activation, error) {
	installed := inventory.Versions(e.root, p)
	if len(installed) == 0 {
		return nil, fmt.Errorf("no %s versions installed: %w", p.Name, ErrNotInstalled)
	}

	target, err := pickNewest(installed, selector)
	if err != nil {
		return nil, fmt.Errorf("cannot activate %s %q: %w", p.Name, selector, err)
	}

	src := p.VersionDir(e.root, target)
	dst := p.ActiveDir(e.root)
	if err := e.removeAll(dst); err != nil {
		return nil, fmt.Errorf("failed to clear active directory: %w", err)
	}
	if err := copyTree(src, dst); err != nil {
		return nil, fmt.Errorf("failed to copy %s %s into place: %w", p.Name, target, err)
	}

	act := &Activation{Product: p.Name, Version: target, Dir: dst}
	if e.verifier != nil {
		if got, ok := e.verifier.Detect(p); !ok {
			act.Warnings = append(act.Warnings,
				fmt.Sprintf("%s did not answer its version probe after the switch; a new shell may be needed", p.Binary))
		} else if !strings.EqualFold(got, target) {
			act.Warnings = append(act.Warnings,
				fmt.Sprintf("%s still reports %s; check that %s precedes any other install on PATH", p.Binary, got, dst))
		}
	}
	return act, nil
}

// Remove deletes installed versions. The selector is "all", an exact
// version, or a prefix that matches exactly one version; an ambiguous
// prefix is refused. A removal set that includes the active version is
// refused outright before anything is deleted unless force is set, in
// which case the active version's stable copy is deleted with it.
func (e *Engine) Remove(p config.Product, selector, activeVersion string, force bool) (*Outcome, error) {
	installed := inventory.Versions(e.root, p)
	out := &Outcome{Product: p.Name, Failed: map[string]error{}}

	var targets []string
	switch {
	case strings.EqualFold(selector, "all"):
		targets = installed
	default:
		matches := selectorMatches(installed, selector)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s %q: %w", p.Name, selector, ErrNotInstalled)
		}
		if len(matches) > 1 {
			return nil, &AmbiguousSelectorError{Selector: selector, Candidates: matches}
		}
		targets = matches
	}

	// The guard fires before the deletion loop: a refused removal
	// must leave the filesystem untouched.
	if !force && activeVersion != "" && containsFold(targets, activeVersion) {
		return nil, fmt.Errorf("%s %s is in the removal set: %w", p.Name, activeVersion, ErrActiveProtected)
	}

	for _, v := range targets {
		if err := e.removeAll(p.VersionDir(e.root, v)); err != nil {
			out.Failed[v] = err
			continue
		}
		out.Removed = append(out.Removed, v)
		if strings.EqualFold(v, activeVersion) {
			out.ActiveRemoved = true
		}
	}

	if out.ActiveRemoved {
		if err := e.removeAll(p.ActiveDir(e.root)); err != nil {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("the removed version's stable copy in %s could not be cleared: %v", p.ActiveDir(e.root), err))
		}
	}

	// A single-target removal surfaces its failure directly.
	if len(targets) == 1 {
		if err, ok := out.Failed[targets[0]]; ok {
			return out, err
		}
	}
	return out, nil
}

// Purge keeps the newest keep versions and removes the rest. When the
// active version falls outside the retention window it is protected:
// without force the purge is refused, with force the active version is
// kept in place of the oldest version the window would have retained.
func (e *Engine) Purge(p config.Product, keep int, activeVersion string, force bool) (*Outcome, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep=%d: %w", keep, ErrBadKeepCount)
	}

	installed := inventory.Versions(e.root, p) // newest first
	out := &Outcome{Product: p.Name, Failed: map[string]error{}}
	if len(installed) <= keep {
		out.Kept = installed
		return out, nil
	}

	kept := append([]string(nil), installed[:keep]...)
	if activeVersion != "" && containsFold(installed, activeVersion) && !containsFold(kept, activeVersion) {
		if !force {
			return nil, fmt.Errorf("%s %s would be purged: %w", p.Name, activeVersion, ErrActiveProtected)
		}
		// Evict the oldest retained version to make room for the
		// active one; the retention count stays honest.
		kept[len(kept)-1] = activeVersion
		version.SortDescending(kept)
	}

	for _, v := range installed {
		if containsFold(kept, v) {
			out.Kept = append(out.Kept, v)
			continue
		}
		if err := e.removeAll(p.VersionDir(e.root, v)); err != nil {
			out.Failed[v] = err
			continue
		}
		out.Removed = append(out.Removed, v)
	}
	return out, nil
}

// pickNewest resolves a selector against installed versions the way
// installation does: exact match wins, otherwise the newest prefix
// match. Empty means newest overall.
func pickNewest(installed []string, selector string) (string, error) {
	if selector == "" || strings.EqualFold(selector, "latest") {
		latest, ok := version.Latest(installed)
		if !ok {
			return "", ErrNotInstalled
		}
		return latest, nil
	}
	for _, v := range installed {
		if strings.EqualFold(v, selector) {
			return v, nil
		}
	}
	matches := version.MatchPrefix(selector, installed)
	if latest, ok := version.Latest(matches); ok {
		return latest, nil
	}
	return "", ErrNotInstalled
}

func selectorMatches(installed []string, selector string) []string {
	for _, v := range installed {
		if strings.EqualFold(v, selector) {
			return []string{v}
		}
	}
	return version.MatchPrefix(selector, installed)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
