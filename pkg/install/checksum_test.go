package install

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArchiveFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.zip")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func digestOf(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestVerifyChecksumMatch(t *testing.T) {
	const content = "release bytes"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".sha256") {
			w.Write([]byte(digestOf(content) + "  artifact.zip\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	d := &Downloader{BaseURL: server.URL}
	archive := writeArchiveFile(t, content)
	if err := d.VerifyChecksum("https://downloads.praxis.dev/x/artifact.zip", archive, "studio"); err != nil {
		t.Errorf("matching checksum should pass: %v", err)
	}
}

func TestVerifyChecksumMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(digestOf("something else") + "\n"))
	}))
	defer server.Close()

	d := &Downloader{BaseURL: server.URL}
	archive := writeArchiveFile(t, "release bytes")
	err := d.VerifyChecksum("https://downloads.praxis.dev/x/artifact.zip", archive, "studio")
	var mismatch *ChecksumError
	if !errors.As(err, &mismatch) {
		t.Fatalf("want ChecksumError, got %v", err)
	}
}

func TestVerifyChecksumSkipsWhenUnpublished(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	d := &Downloader{BaseURL: server.URL}
	archive := writeArchiveFile(t, "release bytes")
	if err := d.VerifyChecksum("https://downloads.praxis.dev/x/artifact.zip", archive, "studio"); err != nil {
		t.Errorf("a missing sidecar should skip verification: %v", err)
	}
}

func TestParseDigest(t *testing.T) {
	want := digestOf("x")
	cases := []struct {
		name    string
		content string
	}{
		{"bare digest", want + "\n"},
		{"digest and filename", want + "  artifact.zip\n"},
		{"binary mode marker", "*" + want + "\n"},
		{"comment then digest", "# produced by the release pipeline\n" + want + "\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDigest(tc.content)
			if err != nil {
				t.Fatalf("parseDigest: %v", err)
			}
			if got != want {
				t.Errorf("parseDigest = %q, want %q", got, want)
			}
		})
	}

	if _, err := parseDigest("not a digest at all\n"); err == nil {
		t.Error("garbage content should not yield a digest")
	}
}
