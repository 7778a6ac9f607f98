package catalog

import (
	"encoding/xml"
	"sort"
	"strings"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/version"
)

// mavenMetadata is the subset of a Maven repository metadata document the
// catalog needs: just the version elements.
type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	Versioning struct {
		Versions struct {
			Version []string `xml:"version"`
		} `xml:"versions"`
	} `xml:"versioning"`
}

// fetchMavenMetadata reads the product's fixed metadata document. Maven
// metadata carries no dates or sizes, so records get the unknown sentinel
// values and are sorted by version number instead, newest first.
func (c *Client) fetchMavenMetadata(p config.Product) ([]Record, error) {
	body, err := c.get(p, p.MetadataURL)
	if err != nil {
		return nil, err
	}

	var meta mavenMetadata
	if err := xml.Unmarshal(body, &meta); err != nil {
		return nil, &ParseError{Product: p.Name, Err: err}
	}

	seen := make(map[string]bool)
	var records []Record
	for _, v := range meta.Versioning.Versions.Version {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, Record{Version: v})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return version.CompareStrings(records[i].Version, records[j].Version) > 0
	})
	return records, nil
}
