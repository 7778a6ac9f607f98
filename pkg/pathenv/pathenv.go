// Package pathenv checks whether the stable per-product launch
// directory is reachable through PATH and builds the guidance shown
// when it is not. Switching versions never edits the user's shell
// configuration; the stable directory makes one PATH entry per
// product enough forever.
package pathenv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/praxis-tools/pvm/pkg/config"
)

// Binder inspects a PATH value against product launch directories.
type Binder struct {
	path string
}

// NewBinder reads PATH from the environment.
func NewBinder() *Binder {
	return &Binder{path: os.Getenv("PATH")}
}

// NewBinderWithPath uses a fixed PATH value (tests).
func NewBinderWithPath(path string) *Binder {
	return &Binder{path: path}
}

// LaunchDir returns the directory a shell should have on PATH for the
// product: the active directory's bin/ subfolder when the release ships
// one, the active directory itself for flat layouts, and for anything
// else the directory the product binary is actually found in.
func LaunchDir(root string, p config.Product) string {
	active := p.ActiveDir(root)
	bin := filepath.Join(active, "bin")
	if info, err := os.Stat(bin); err == nil && info.IsDir() {
		return bin
	}
	if _, err := os.Stat(filepath.Join(active, p.Binary)); err == nil {
		return active
	}
	if dir, err := FindBinaryDir(active, p.Binary); err == nil {
		return dir
	}
	return active
}

// OnPath reports whether dir is one of the PATH entries. Comparison is
// case-insensitive on Windows, where the filesystem is too.
func (b *Binder) OnPath(dir string) bool {
	clean := filepath.Clean(dir)
	for _, entry := range filepath.SplitList(b.path) {
		if entry == "" {
			continue
		}
		if samePathEntry(filepath.Clean(entry), clean) {
			return true
		}
	}
	return false
}

func samePathEntry(a, b string) bool {
	if config.IsWindowsPlatform(config.CurrentPlatform()) {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Hint returns the one-time setup guidance for a product whose launch
// directory is missing from PATH, and false when no guidance is needed.
func (b *Binder) Hint(root string, p config.Product) (string, bool) {
	dir := LaunchDir(root, p)
	if b.OnPath(dir) {
		return "", false
	}
	if config.IsWindowsPlatform(config.CurrentPlatform()) {
		return fmt.Sprintf("add %s to your PATH (System Properties > Environment Variables) to run %s directly", dir, p.Binary), true
	}
	return fmt.Sprintf("add 'export PATH=\"%s\"' to your shell profile to run %s directly",
		Prepend([]string{dir}, "$PATH"), p.Binary), true
}

// Prepend builds a PATH value with dirs ahead of current.
func Prepend(dirs []string, current string) string {
	if len(dirs) == 0 {
		return current
	}
	joined := strings.Join(dirs, string(os.PathListSeparator))
	if current == "" {
		return joined
	}
	return joined + string(os.PathListSeparator) + current
}

// FindBinaryDir walks root looking for the named executable and returns
// its parent directory. Used to locate the launch directory inside
// releases with uncommon layouts.
func FindBinaryDir(root, binary string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && matchesBinary(d.Name(), binary) {
			found = filepath.Dir(path)
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", os.ErrNotExist
	}
	return found, nil
}

func matchesBinary(name, binary string) bool {
	if name == binary {
		return true
	}
	// Windows releases ship binary.exe.
	return strings.EqualFold(name, binary+".exe")
}
