package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/util"
)

// HTTPStatusError is a non-success response for an artifact request.
// It is fatal: retrying the same URL will not change the answer.
type HTTPStatusError struct {
	Status int
	URL    string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
}

// Downloader streams release artifacts to disk with retries for transient
// transport failures and magic-byte validation of the result.
type Downloader struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	BaseURL    string // overrides artifact hosts when set (mirrors, tests)
}

// Fetch downloads url into dest. Transport failures are retried with
// backoff; HTTP error statuses abort immediately. Returns the byte count
// written.
func (d *Downloader) Fetch(url, dest, product string) (int64, error) {
	if d.BaseURL != "" {
		url = util.RebaseURL(url, d.BaseURL)
	}

	var lastErr error
	for attempt := 0; attempt <= d.MaxRetries; attempt++ {
		if attempt > 0 {
			util.LogVerbose("[%s] retry %d/%d after %v", product, attempt, d.MaxRetries, d.RetryDelay)
			time.Sleep(d.RetryDelay * time.Duration(attempt))
		}

		written, err := d.attempt(url, dest, product)
		if err == nil {
			return written, nil
		}
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) {
			return 0, err
		}
		lastErr = err
		util.LogVerbose("[%s] download attempt %d failed: %v", product, attempt+1, err)
	}
	return 0, fmt.Errorf("download failed after %d attempts: %w", d.MaxRetries+1, lastErr)
}

func (d *Downloader) resolveTimeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return config.DefaultDownloadTimeout
}

func (d *Downloader) attempt(url, dest, product string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.resolveTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "pvm/1.0 (https://github.com/praxis-tools/pvm)")

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &HTTPStatusError{Status: resp.StatusCode, URL: url}
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open download target: %w", err)
	}
	defer out.Close()

	progress := &progressWriter{product: product, total: resp.ContentLength}
	written, err := io.Copy(out, io.TeeReader(resp.Body, progress))
	if err != nil {
		return 0, fmt.Errorf("download interrupted: %w", err)
	}
	if err := out.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync download: %w", err)
	}

	if err := validateArchiveHeader(dest, url); err != nil {
		return 0, err
	}
	return written, nil
}

// progressWriter reports download progress every few megabytes.
type progressWriter struct {
	product string
	total   int64
	written int64
	next    int64
}

const progressStep = 8 * 1024 * 1024

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.written >= w.next {
		if w.total > 0 {
			fmt.Printf("  ⏳ [%s] downloaded %d/%d MB\n", w.product, w.written>>20, w.total>>20)
		} else {
			fmt.Printf("  ⏳ [%s] downloaded %d MB\n", w.product, w.written>>20)
		}
		w.next = w.written + progressStep
	}
	return len(p), nil
}

// validateArchiveHeader checks the magic bytes of a downloaded file
// against the format its URL promises, catching error pages served with
// a 200 status.
func validateArchiveHeader(path, url string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file for validation: %w", err)
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, config.ExtTarGz), strings.HasSuffix(lower, config.ExtTgz):
		if len(header) < 2 || header[0] != 0x1f || header[1] != 0x8b {
			return headerMismatch(header, "gzip")
		}
	case strings.HasSuffix(lower, config.ExtTarXz):
		magic := []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
		if len(header) < len(magic) || !bytes.Equal(header[:len(magic)], magic) {
			return headerMismatch(header, "xz")
		}
	case strings.HasSuffix(lower, config.ExtZip):
		if len(header) < 2 || header[0] != 0x50 || header[1] != 0x4b {
			return headerMismatch(header, "zip")
		}
	}
	return nil
}

func headerMismatch(header []byte, want string) error {
	sample := header
	if len(sample) > 100 {
		sample = sample[:100]
	}
	if bytes.Contains(sample, []byte("<html")) || bytes.Contains(sample, []byte("<!DOCTYPE")) {
		return fmt.Errorf("received an HTML error page instead of a %s archive", want)
	}
	return fmt.Errorf("downloaded file is not a valid %s archive", want)
}
