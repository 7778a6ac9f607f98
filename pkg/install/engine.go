// Package install resolves version specifiers against the remote catalog
// and places release archives into the per-version directory layout.
//
// Installation is idempotent: a version whose directory already exists
// with content is never downloaded again, so re-running install is also
// the recovery path after a partial extraction.
package install

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/praxis-tools/pvm/pkg/catalog"
	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/util"
	"github.com/praxis-tools/pvm/pkg/version"
)

// ErrVersionNotFound means a version specifier matched nothing in the
// remote catalog.
var ErrVersionNotFound = errors.New("version not found")

// Result is the structured outcome of an install operation.
type Result struct {
	Product          string
	Version          string
	Dir              string
	AlreadyInstalled bool
	DownloadedBytes  int64
}

// Engine installs product versions under the install root.
type Engine struct {
	root     string
	platform string
	catalog  *catalog.Client
	dl       *Downloader
}

// NewEngine creates an install engine for the current platform.
func NewEngine(root string, cat *catalog.Client, dl *Downloader) *Engine {
	return &Engine{
		root:     root,
		platform: config.CurrentPlatform(),
		catalog:  cat,
		dl:       dl,
	}
}

// NewEngineForPlatform creates an install engine with an explicit
// platform string.
func NewEngineForPlatform(root, platform string, cat *catalog.Client, dl *Downloader) *Engine {
	e := NewEngine(root, cat, dl)
	e.platform = platform
	return e
}

// ResolveSpec resolves a version specifier against remote records.
// Empty or "latest" picks the maximum version; an exact case-insensitive
// match wins next; anything else is treated as a dotted prefix and the
// maximum matching version is chosen.
func ResolveSpec(spec string, records []catalog.Record) (string, error) {
	versions := make([]string, 0, len(records))
	for _, r := range records {
		versions = append(versions, r.Version)
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: remote catalog is empty", ErrVersionNotFound)
	}

	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "latest") {
		best, _ := version.Latest(versions)
		return best, nil
	}

	for _, v := range versions {
		if strings.EqualFold(v, spec) {
			return v, nil
		}
	}

	if matches := version.MatchPrefix(spec, versions); len(matches) > 0 {
		best, _ := version.Latest(matches)
		return best, nil
	}

	return "", fmt.Errorf("%w: %q does not match any of the available versions (e.g. %s)",
		ErrVersionNotFound, spec, strings.Join(sampleVersions(versions, 5), ", "))
}

// sampleVersions returns up to n versions, newest first, for error text.
func sampleVersions(versions []string, n int) []string {
	sorted := version.SortDescending(append([]string(nil), versions...))
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Install resolves spec against the product's catalog and installs the
// resolved version. Safe to repeat.
func (e *Engine) Install(p config.Product, spec string) (*Result, error) {
	records, err := e.catalog.Fetch(p, e.platform)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveSpec(spec, records)
	if err != nil {
		return nil, err
	}
	util.LogVerbose("Resolved %s spec %q to %s", p.Name, spec, resolved)

	result := &Result{Product: p.Name, Version: resolved, Dir: p.VersionDir(e.root, resolved)}
	if dirHasContent(result.Dir) {
		result.AlreadyInstalled = true
		return result, nil
	}

	url := p.DownloadURL(resolved, e.platform)
	tmp, err := os.CreateTemp("", "pvm-download-*"+archiveExtOf(url))
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	written, err := e.dl.Fetch(url, tmpPath, p.Name)
	if err != nil {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.Status == 404 && !config.IsWindowsPlatform(e.platform) {
			return nil, fmt.Errorf("%w (the %s release for %s may not be published yet; Linux and macOS artifacts often trail the Windows release)",
				err, resolved, e.platform)
		}
		return nil, err
	}
	result.DownloadedBytes = written

	if err := e.dl.VerifyChecksum(url, tmpPath, p.Name); err != nil {
		return nil, err
	}

	if err := Extract(tmpPath, result.Dir, url, p.StripWrapper); err != nil {
		// No rollback: the partial target stays in place and a re-run of
		// install resumes from a clean download.
		return nil, err
	}
	if err := MarkExecutables(result.Dir, p); err != nil {
		return nil, fmt.Errorf("failed to restore executable bits: %w", err)
	}
	return result, nil
}

// dirHasContent reports whether dir exists and holds at least one entry.
func dirHasContent(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func archiveExtOf(url string) string {
	lower := strings.ToLower(url)
	for _, ext := range []string{config.ExtTarGz, config.ExtTarXz, config.ExtTgz, config.ExtZip} {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ""
}
