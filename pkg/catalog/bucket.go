package catalog

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/util"
)

// listBucketResult is the object-store listing document. The same shape is
// served by S3-compatible stores, which is what the vendor download hosts
// run.
type listBucketResult struct {
	XMLName  xml.Name       `xml:"ListBucketResult"`
	Contents []bucketObject `xml:"Contents"`
}

type bucketObject struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	Size         int64  `xml:"Size"`
}

// checksumSuffixes mark companion artifacts that accompany a release and
// must never become version records.
var checksumSuffixes = []string{".sha256", ".sha512", ".md5", ".asc"}

var archiveExts = []string{config.ExtTarGz, config.ExtTgz, config.ExtTarXz, config.ExtZip}

// fetchBucketListing lists release objects for a product+platform and
// normalizes each into a Record. Objects without a recognizable version
// are dropped silently. Records come back sorted by upstream timestamp,
// newest first; the reconciler re-sorts by version number later.
func (c *Client) fetchBucketListing(p config.Product, platform string) ([]Record, error) {
	body, err := c.get(p, p.ListingURL(platform))
	if err != nil {
		return nil, err
	}

	var listing listBucketResult
	if err := xml.Unmarshal(body, &listing); err != nil {
		return nil, &ParseError{Product: p.Name, Err: err}
	}

	seen := make(map[string]bool)
	var records []Record
	for _, obj := range listing.Contents {
		if isChecksumKey(obj.Key) {
			continue
		}
		version := versionFromKey(obj.Key)
		if version == "" {
			util.LogVerbose("Skipping %s object with no version: %s", p.Name, obj.Key)
			continue
		}
		key := strings.ToLower(version)
		if seen[key] {
			continue // first-seen wins on duplicates
		}
		seen[key] = true

		modified, _ := time.Parse(time.RFC3339, obj.LastModified)
		records = append(records, Record{
			Version:      version,
			LastModified: modified,
			SizeBytes:    obj.Size,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastModified.After(records[j].LastModified)
	})
	return records, nil
}

func isChecksumKey(key string) bool {
	lower := strings.ToLower(key)
	for _, suffix := range checksumSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// versionFromKey extracts the version from an object key. The preferred
// source is a path segment that contains a dot and does not reference an
// archive; the fallback is a version token embedded in the filename
// between a dash and the archive extension.
func versionFromKey(key string) string {
	segments := strings.Split(key, "/")
	for _, seg := range segments[:max(len(segments)-1, 0)] {
		if looksLikeVersion(seg) {
			return seg
		}
	}
	return versionFromFilename(segments[len(segments)-1])
}

func versionFromFilename(name string) string {
	stripped := name
	for _, ext := range archiveExts {
		if strings.HasSuffix(strings.ToLower(stripped), ext) {
			stripped = stripped[:len(stripped)-len(ext)]
			break
		}
	}
	if stripped == name {
		return "" // not an archive filename
	}
	for _, token := range strings.Split(stripped, "-") {
		if looksLikeVersion(token) {
			return token
		}
	}
	return ""
}

func looksLikeVersion(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	if s[0] < '0' || s[0] > '9' {
		return false
	}
	lower := strings.ToLower(s)
	for _, ext := range archiveExts {
		if strings.Contains(lower, ext) {
			return false
		}
	}
	return true
}
