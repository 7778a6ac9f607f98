package install

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xi2/xz"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/util"
)

// UnsupportedArchiveError means the artifact extension names a format the
// extractor does not handle.
type UnsupportedArchiveError struct {
	Name string
}

func (e *UnsupportedArchiveError) Error() string {
	return fmt.Sprintf("unsupported archive type: %s", e.Name)
}

// CorruptArchiveError means the archive bytes could not be decoded.
type CorruptArchiveError struct {
	Name string
	Err  error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt archive %s: %v", e.Name, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error { return e.Err }

// Extract unpacks an archive into dest, selecting the decoder by file
// extension of name (src may be a temp path without one). When
// stripWrapper is set and every entry sits under one top-level directory,
// that single wrapper is stripped.
func Extract(src, dest, name string, stripWrapper bool) error {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, config.ExtZip):
		return extractZip(src, dest, name, stripWrapper)
	case strings.HasSuffix(lower, config.ExtTarGz), strings.HasSuffix(lower, config.ExtTgz):
		return extractTarGz(src, dest, name, stripWrapper)
	case strings.HasSuffix(lower, config.ExtTarXz):
		return extractTarXz(src, dest, name, stripWrapper)
	default:
		return &UnsupportedArchiveError{Name: name}
	}
}

func extractZip(src, dest, name string, stripWrapper bool) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return &CorruptArchiveError{Name: name, Err: err}
	}
	defer reader.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	stripPrefix := ""
	if stripWrapper {
		var names []string
		for _, f := range reader.File {
			names = append(names, f.Name)
		}
		stripPrefix = singleTopLevelPrefix(names)
	}

	for _, file := range reader.File {
		relativePath, ok := strippedPath(file.Name, stripPrefix)
		if !ok {
			continue
		}
		targetPath := filepath.Join(dest, relativePath)
		if !strings.HasPrefix(targetPath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid file path in archive: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, file.FileInfo().Mode()); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", targetPath, err)
			}
			continue
		}
		if err := writeZipEntry(file, targetPath); err != nil {
			return fmt.Errorf("failed to extract file %s: %w", targetPath, err)
		}
	}
	return nil
}

func writeZipEntry(file *zip.File, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}
	reader, err := file.Open()
	if err != nil {
		return err
	}
	defer reader.Close()

	mode := file.FileInfo().Mode()
	if mode&0200 == 0 {
		mode |= 0200
	}
	target, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer target.Close()

	_, err = io.Copy(target, reader)
	return err
}

func extractTarGz(src, dest, name string, stripWrapper bool) error {
	open := func() (io.ReadCloser, *tar.Reader, error) {
		f, err := os.Open(src)
		if err != nil {
			return nil, nil, err
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, &CorruptArchiveError{Name: name, Err: err}
		}
		return f, tar.NewReader(gz), nil
	}
	return extractTarStream(open, dest, name, stripWrapper)
}

func extractTarXz(src, dest, name string, stripWrapper bool) error {
	open := func() (io.ReadCloser, *tar.Reader, error) {
		f, err := os.Open(src)
		if err != nil {
			return nil, nil, err
		}
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			f.Close()
			return nil, nil, &CorruptArchiveError{Name: name, Err: err}
		}
		return f, tar.NewReader(xzr), nil
	}
	return extractTarStream(open, dest, name, stripWrapper)
}

// extractTarStream makes two passes over the tar stream: the first
// collects entry names to decide wrapper stripping, the second extracts.
func extractTarStream(open func() (io.ReadCloser, *tar.Reader, error), dest, name string, stripWrapper bool) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	stripPrefix := ""
	if stripWrapper {
		closer, tr, err := open()
		if err != nil {
			return err
		}
		var names []string
		for {
			header, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				closer.Close()
				return &CorruptArchiveError{Name: name, Err: err}
			}
			names = append(names, header.Name)
		}
		closer.Close()
		stripPrefix = singleTopLevelPrefix(names)
	}

	closer, tr, err := open()
	if err != nil {
		return err
	}
	defer closer.Close()

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &CorruptArchiveError{Name: name, Err: err}
		}

		relativePath, ok := strippedPath(header.Name, stripPrefix)
		if !ok {
			continue
		}
		targetPath := filepath.Join(dest, relativePath)
		if !strings.HasPrefix(targetPath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid file path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", targetPath, err)
			}
		case tar.TypeReg:
			if err := writeTarEntry(tr, targetPath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to extract file %s: %w", targetPath, err)
			}
		case tar.TypeSymlink:
			if err := os.RemoveAll(targetPath); err != nil {
				return fmt.Errorf("failed to replace %s: %w", targetPath, err)
			}
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", targetPath, err)
			}
		default:
			util.LogVerbose("Skipping unsupported tar entry type %d for %s", header.Typeflag, header.Name)
		}
	}
	return nil
}

func writeTarEntry(tr *tar.Reader, targetPath string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}
	if mode&0200 == 0 {
		mode |= 0200
	}
	f, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, tr)
	return err
}

// singleTopLevelPrefix returns "dir/" when every entry sits under the
// same top-level directory, otherwise "".
func singleTopLevelPrefix(names []string) string {
	topLevel := ""
	for _, name := range names {
		if name == "" {
			continue
		}
		first := strings.SplitN(name, "/", 2)[0]
		if first == "" {
			return ""
		}
		if topLevel == "" {
			topLevel = first
		} else if topLevel != first {
			return ""
		}
	}
	if topLevel == "" {
		return ""
	}
	return topLevel + "/"
}

// strippedPath removes the wrapper prefix from an entry name. The second
// return is false for entries to skip (the wrapper directory itself, or
// entries outside the prefix).
func strippedPath(name, stripPrefix string) (string, bool) {
	if stripPrefix == "" {
		return name, name != ""
	}
	if !strings.HasPrefix(name, stripPrefix) {
		return "", false
	}
	rel := strings.TrimPrefix(name, stripPrefix)
	if rel == "" {
		return "", false
	}
	return rel, true
}

// MarkExecutables restores executable bits after extraction on Unix-like
// targets: shell scripts, extensionless files in bin-like directories,
// and anything sharing the product's binary name.
func MarkExecutables(dest string, p config.Product) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return filepath.WalkDir(dest, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !shouldBeExecutable(path, p) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		return os.Chmod(path, info.Mode()|0755)
	})
}

func shouldBeExecutable(path string, p config.Product) bool {
	name := filepath.Base(path)
	if strings.EqualFold(name, p.Binary) {
		return true
	}
	if strings.HasSuffix(name, ".sh") {
		return true
	}
	if !strings.Contains(name, ".") {
		parent := strings.ToLower(filepath.Base(filepath.Dir(path)))
		if parent == "bin" || parent == "sbin" || parent == "libexec" {
			return true
		}
	}
	return false
}
