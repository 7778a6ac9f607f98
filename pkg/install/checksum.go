package install

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/praxis-tools/pvm/pkg/util"
)

// ChecksumError means the downloaded archive does not match its
// published digest. The archive must not be unpacked.
type ChecksumError struct {
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// VerifyChecksum fetches the artifact's .sha256 sidecar and checks the
// downloaded file against it. Not every release publishes a sidecar;
// a 404 skips verification rather than failing the install.
func (d *Downloader) VerifyChecksum(artifactURL, archivePath, product string) error {
	expected, err := d.fetchDigest(artifactURL + ".sha256")
	if err != nil {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
			util.LogVerbose("[%s] no checksum published for %s, skipping verification", product, path.Base(artifactURL))
			return nil
		}
		return fmt.Errorf("failed to fetch checksum: %w", err)
	}

	actual, err := fileSHA256(archivePath)
	if err != nil {
		return err
	}
	if !strings.EqualFold(expected, actual) {
		return &ChecksumError{Expected: expected, Actual: actual}
	}
	util.LogVerbose("[%s] checksum verified (%s)", product, actual[:12])
	return nil
}

func (d *Downloader) fetchDigest(url string) (string, error) {
	if d.BaseURL != "" {
		url = util.RebaseURL(url, d.BaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.resolveTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &HTTPStatusError{Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	return parseDigest(string(body))
}

// parseDigest accepts both a bare hex digest and the common
// "digest  filename" sidecar format.
func parseDigest(content string) (string, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		digest := strings.Fields(line)[0]
		digest = strings.TrimPrefix(digest, "*")
		if len(digest) == sha256.Size*2 && isHex(digest) {
			return digest, nil
		}
	}
	return "", fmt.Errorf("no sha256 digest found in checksum document")
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksum: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to read file for checksum: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
