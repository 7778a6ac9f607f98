// Package inventory scans the install root for installed product versions.
//
// The filesystem layout under the install root is the system's durable
// state: a directory counts as an installed version only when it is a
// direct child of the product's base path, its name contains a dot (which
// separates it from the reserved active directory), and it holds at least
// one file. Scan failures degrade to an empty result with a verbose
// diagnostic; listing and removal flows never see an error from here.
package inventory

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/util"
	"github.com/praxis-tools/pvm/pkg/version"
)

// Entry is one installed version of a product.
type Entry struct {
	Version   string
	Dir       string
	SizeBytes int64
}

// List returns the installed versions of a product, newest first. A
// missing or unreadable base directory yields an empty list, not an error.
func List(root string, p config.Product) []Entry {
	base := p.BaseDir(root)
	children, err := os.ReadDir(base)
	if err != nil {
		util.LogVerbose("No installed versions of %s: %v", p.Name, err)
		return nil
	}

	var entries []Entry
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		name := child.Name()
		if !strings.Contains(name, ".") {
			continue // reserved names like active never contain a dot
		}
		dir := filepath.Join(base, name)
		size := dirSize(dir)
		if size == 0 && !hasAnyFile(dir) {
			util.LogVerbose("Skipping empty version directory %s", dir)
			continue
		}
		entries = append(entries, Entry{Version: name, Dir: dir, SizeBytes: size})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return version.CompareStrings(entries[i].Version, entries[j].Version) > 0
	})
	return entries
}

// Versions returns just the installed version strings, newest first.
func Versions(root string, p config.Product) []string {
	entries := List(root, p)
	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		versions = append(versions, e.Version)
	}
	return versions
}

// IsInstalled reports whether the given version is installed, matching
// case-insensitively.
func IsInstalled(root string, p config.Product, v string) bool {
	for _, e := range List(root, p) {
		if strings.EqualFold(e.Version, v) {
			return true
		}
	}
	return false
}

// SizeOf returns the recursive byte size of one installed version, or 0
// on any failure.
func SizeOf(root string, p config.Product, v string) int64 {
	return dirSize(p.VersionDir(root, v))
}

// dirSize sums all file sizes under dir. Unreadable subtrees count as 0.
func dirSize(dir string) int64 {
	var total int64
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}

// hasAnyFile reports whether dir contains at least one regular file,
// recursively. Zero-byte files still count as content.
func hasAnyFile(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
