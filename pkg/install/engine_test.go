package install

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/praxis-tools/pvm/pkg/catalog"
	"github.com/praxis-tools/pvm/pkg/config"
)

const datakitMetadata = `<metadata>
  <versioning>
    <versions>
      <version>8.1.23</version>
      <version>8.2.0</version>
    </versions>
  </versioning>
</metadata>`

func datakitArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"datakit-cli-8.2.0/bin/datakit": "binary",
		"datakit-cli-8.2.0/LICENSE":     "license",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newVendorServer serves the datakit metadata document and release
// archive, counting artifact downloads.
func newVendorServer(t *testing.T, downloads *atomic.Int32) *httptest.Server {
	t.Helper()
	archive := datakitArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "maven-metadata.xml"):
			w.Write([]byte(datakitMetadata))
		case strings.HasSuffix(r.URL.Path, ".zip"):
			downloads.Add(1)
			w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestEngine(root, base string) *Engine {
	return NewEngineForPlatform(
		root,
		config.PlatformLinuxX64,
		catalog.NewClientWithBase(5*time.Second, base),
		&Downloader{Timeout: 5 * time.Second, RetryDelay: time.Millisecond, BaseURL: base},
	)
}

func TestInstallLatestDownloadsAndExtracts(t *testing.T) {
	var downloads atomic.Int32
	server := newVendorServer(t, &downloads)
	root := t.TempDir()
	engine := newTestEngine(root, server.URL)
	datakit, _ := config.LookupProduct("datakit")

	result, err := engine.Install(datakit, "latest")
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if result.Version != "8.2.0" || result.AlreadyInstalled {
		t.Errorf("unexpected result: %+v", result)
	}
	// Wrapper stripped, content in place.
	if _, err := os.Stat(filepath.Join(datakit.VersionDir(root, "8.2.0"), "bin", "datakit")); err != nil {
		t.Errorf("extracted layout wrong: %v", err)
	}
	if downloads.Load() != 1 {
		t.Errorf("expected exactly one download, got %d", downloads.Load())
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	var downloads atomic.Int32
	server := newVendorServer(t, &downloads)
	root := t.TempDir()
	engine := newTestEngine(root, server.URL)
	datakit, _ := config.LookupProduct("datakit")

	if _, err := engine.Install(datakit, "8.2.0"); err != nil {
		t.Fatalf("first install failed: %v", err)
	}
	result, err := engine.Install(datakit, "8.2.0")
	if err != nil {
		t.Fatalf("second install failed: %v", err)
	}
	if !result.AlreadyInstalled {
		t.Error("second install should report already installed")
	}
	if downloads.Load() != 1 {
		t.Errorf("archive should be downloaded exactly once, got %d", downloads.Load())
	}
}

func TestInstallPrefixSpec(t *testing.T) {
	var downloads atomic.Int32
	server := newVendorServer(t, &downloads)
	engine := newTestEngine(t.TempDir(), server.URL)
	datakit, _ := config.LookupProduct("datakit")

	// Both 8.x versions match; the maximum is downloaded. The archive is
	// published as 8.2.0, so only that resolution can succeed here.
	result, err := engine.Install(datakit, "8")
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if result.Version != "8.2.0" {
		t.Errorf("prefix spec should resolve to the maximum match, got %q", result.Version)
	}
}

func TestInstall404CarriesLinuxHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "maven-metadata.xml") {
			w.Write([]byte(datakitMetadata))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()
	engine := newTestEngine(t.TempDir(), server.URL)
	datakit, _ := config.LookupProduct("datakit")

	_, err := engine.Install(datakit, "8.1.23")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the literal status code: %v", err)
	}
	if !strings.Contains(err.Error(), "trail") {
		t.Errorf("404 on a non-Windows platform should carry the release-lag hint: %v", err)
	}
}
