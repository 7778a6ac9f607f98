// Package catalog discovers the publicly available versions of a product.
//
// Two upstream formats exist: an object-store bucket listing (XML key
// enumeration, used by studio and runner) and a Maven repository metadata
// document (used by datakit). Both normalize into Record values; the
// reconciler merges them with local filesystem state later.
package catalog

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/util"
)

// Record is one remotely available version of a product.
type Record struct {
	Version      string
	LastModified time.Time // zero when the upstream carries no date
	SizeBytes    int64     // 0 when unknown
}

// HasDate reports whether the upstream supplied a release date.
func (r Record) HasDate() bool {
	return !r.LastModified.IsZero()
}

// FetchError is a transient failure talking to the upstream. It is not
// retried here; callers decide whether to retry the whole operation.
type FetchError struct {
	Product string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s versions failed: %v", e.Product, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is a malformed upstream document.
type ParseError struct {
	Product string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s version listing failed: %v", e.Product, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client fetches remote version catalogs. Records are produced fresh on
// every call; nothing is cached.
type Client struct {
	httpClient *http.Client
	baseURL    string // overrides product endpoints when set (tests)
}

// NewClient creates a catalog client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBase creates a client that resolves all product endpoints
// relative to base instead of the vendor hosts.
func NewClientWithBase(timeout time.Duration, base string) *Client {
	c := NewClient(timeout)
	c.baseURL = base
	return c
}

// Fetch returns the remote version records for a product and platform,
// using the strategy the product table selects.
func (c *Client) Fetch(p config.Product, platform string) ([]Record, error) {
	switch p.Catalog {
	case config.CatalogMaven:
		return c.fetchMavenMetadata(p)
	default:
		return c.fetchBucketListing(p, platform)
	}
}

// get issues the request and returns the body, mapping transport and HTTP
// status failures to FetchError.
func (c *Client) get(p config.Product, url string) ([]byte, error) {
	if c.baseURL != "" {
		url = util.RebaseURL(url, c.baseURL)
	}
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, &FetchError{Product: p.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Product: p.Name, Err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Product: p.Name, Err: err}
	}
	return body, nil
}
