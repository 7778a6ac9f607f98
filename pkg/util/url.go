package util

import (
	"net/url"
	"strings"
)

// RebaseURL swaps the scheme and host of rawURL for those of base,
// keeping path and query intact. Used to point vendor endpoints at a
// mirror or a test server.
func RebaseURL(rawURL, base string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	b, err := url.Parse(base)
	if err != nil {
		return rawURL
	}
	u.Scheme = b.Scheme
	u.Host = b.Host
	u.Path = strings.TrimSuffix(b.Path, "/") + u.Path
	return u.String()
}
