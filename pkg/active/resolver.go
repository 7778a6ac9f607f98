// Package active detects which version of a product is currently live on
// the PATH by running the product's own executable and parsing its
// version announcement.
//
// Absence is a normal state here, not an error: the executable may not be
// on the PATH yet, the shell may not have been reopened after activation,
// or the product may print nothing recognizable. All of those map to
// "no active version".
package active

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/util"
)

// ProbeRunner runs a version probe and returns its stdout. Implementations
// exist so tests can substitute canned output for a real subprocess.
type ProbeRunner interface {
	Run(binary string, args ...string) (string, error)
}

// ExecRunner runs probes as real subprocesses resolved via PATH, killed
// when the timeout expires.
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes the binary and captures stdout.
func (r ExecRunner) Run(binary string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = config.DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.Output()
	return string(out), err
}

// Resolver detects the active version of a product. Detection is always
// live; nothing is cached between calls.
type Resolver struct {
	runner ProbeRunner
}

// NewResolver creates a Resolver probing real executables.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{runner: ExecRunner{Timeout: timeout}}
}

// NewResolverWithRunner creates a Resolver with a custom probe runner.
func NewResolverWithRunner(r ProbeRunner) *Resolver {
	return &Resolver{runner: r}
}

// Detect returns the active version of a product, or false when no
// version could be determined.
func (r *Resolver) Detect(p config.Product) (string, bool) {
	if _, err := exec.LookPath(p.Binary); err != nil {
		if _, isExec := r.runner.(ExecRunner); isExec {
			util.LogVerbose("%s not on PATH: %v", p.Binary, err)
			return "", false
		}
		// Fake runners answer regardless of the local PATH.
	}

	out, err := r.runner.Run(p.Binary, p.ProbeArgs...)
	if err != nil {
		util.LogVerbose("Version probe for %s failed: %v", p.Name, err)
		return "", false
	}
	return ParseProbeOutput(p, out)
}

// parseRule is one named attempt at extracting a version from probe
// output. Rules are tried in order; the first hit wins.
type parseRule struct {
	name  string
	apply func(p config.Product, output string) (string, bool)
}

var parseRules = []parseRule{
	{name: "product-announcement", apply: matchAnnouncement},
	{name: "generic-version-token", apply: matchGenericToken},
}

// noticeKeywords mark upgrade-nag lines the generic scan must ignore, so
// a "new version 9.9.9 available" banner is never mistaken for the
// running version.
var noticeKeywords = []string{"update", "upgrade", "available", "newer"}

var genericVersionPattern = regexp.MustCompile(`\b\d+\.\d+\.\d+(?:\.\d+)?\b`)

// ParseProbeOutput extracts a version from probe stdout using the ordered
// rule list.
func ParseProbeOutput(p config.Product, output string) (string, bool) {
	for _, rule := range parseRules {
		if v, ok := rule.apply(p, output); ok {
			util.LogVerbose("Probe rule %s matched %s version %s", rule.name, p.Name, v)
			return v, true
		}
	}
	return "", false
}

// matchAnnouncement applies the product-specific announcement pattern.
// When it matches, it is authoritative.
func matchAnnouncement(p config.Product, output string) (string, bool) {
	if p.ProbePattern == "" {
		return "", false
	}
	re, err := regexp.Compile(p.ProbePattern)
	if err != nil {
		util.LogVerbose("Bad probe pattern for %s: %v", p.Name, err)
		return "", false
	}
	if m := re.FindStringSubmatch(output); len(m) > 1 {
		return m[1], true
	}
	return "", false
}

// matchGenericToken scans output lines for a bare version token, skipping
// lines that look like upgrade notices.
func matchGenericToken(_ config.Product, output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if isNoticeLine(line) {
			continue
		}
		if m := genericVersionPattern.FindString(line); m != "" {
			return m, true
		}
	}
	return "", false
}

func isNoticeLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range noticeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
