package install

import (
	"errors"
	"strings"
	"testing"

	"github.com/praxis-tools/pvm/pkg/catalog"
)

func records(versions ...string) []catalog.Record {
	rs := make([]catalog.Record, 0, len(versions))
	for _, v := range versions {
		rs = append(rs, catalog.Record{Version: v})
	}
	return rs
}

func TestResolveSpecLatest(t *testing.T) {
	rs := records("2.1.10.8038", "2.1.15.1477", "1.9.0")
	for _, spec := range []string{"", "latest", "LATEST"} {
		got, err := ResolveSpec(spec, rs)
		if err != nil {
			t.Fatalf("ResolveSpec(%q) failed: %v", spec, err)
		}
		if got != "2.1.15.1477" {
			t.Errorf("ResolveSpec(%q) = %q, want 2.1.15.1477", spec, got)
		}
	}
}

func TestResolveSpecExactCaseInsensitive(t *testing.T) {
	rs := records("1.2.3-RC.1", "1.2.4")
	got, err := ResolveSpec("1.2.3-rc.1", rs)
	if err != nil {
		t.Fatalf("ResolveSpec failed: %v", err)
	}
	if got != "1.2.3-RC.1" {
		t.Errorf("exact match should return the catalog's spelling, got %q", got)
	}
}

func TestResolveSpecPrefixPicksMaximum(t *testing.T) {
	rs := records("8.1.23", "8.2.0", "7.9.1")

	got, err := ResolveSpec("8.1", rs)
	if err != nil || got != "8.1.23" {
		t.Errorf("ResolveSpec(8.1) = %q, %v", got, err)
	}

	// Both 8.x versions share the prefix; install resolution picks the
	// maximum rather than refusing.
	got, err = ResolveSpec("8", rs)
	if err != nil || got != "8.2.0" {
		t.Errorf("ResolveSpec(8) = %q, %v", got, err)
	}
}

func TestResolveSpecNotFound(t *testing.T) {
	rs := records("8.1.23", "8.2.0")
	_, err := ResolveSpec("11", rs)
	if !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "8.2.0") {
		t.Errorf("error should name a sample of available versions: %v", err)
	}
}

func TestResolveSpecEmptyCatalog(t *testing.T) {
	if _, err := ResolveSpec("latest", nil); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("empty catalog should be ErrVersionNotFound, got %v", err)
	}
}
