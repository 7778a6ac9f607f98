// Package reconcile merges the three data sources about a product's
// versions (remote catalog, local inventory, live active detection)
// into one ordered, de-duplicated, classified view.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/praxis-tools/pvm/pkg/catalog"
	"github.com/praxis-tools/pvm/pkg/inventory"
	"github.com/praxis-tools/pvm/pkg/version"
)

// View is one version's classified status.
type View struct {
	Version      string    `json:"version" yaml:"version"`
	LastModified time.Time `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	SizeBytes    int64     `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Installed    bool      `json:"installed" yaml:"installed"`
	Active       bool      `json:"active" yaml:"active"`
	LocalOnly    bool      `json:"local_only" yaml:"local_only"`
}

// Summary is the metadata handed to output sinks alongside the view list.
type Summary struct {
	ActiveVersion string `json:"active_version,omitempty" yaml:"active_version,omitempty"`
	Total         int    `json:"total" yaml:"total"`
	Shown         int    `json:"shown" yaml:"shown"`
	Truncated     bool   `json:"truncated" yaml:"truncated"`
}

// Reconcile unions remote records with local-only entries, tags each
// version with installed/active/local-only flags (matching versions
// case-insensitively), and sorts the result newest first by version
// number. Every version in remote or local appears exactly once.
func Reconcile(remote []catalog.Record, local []inventory.Entry, active string) []View {
	installed := make(map[string]inventory.Entry, len(local))
	for _, e := range local {
		installed[strings.ToLower(e.Version)] = e
	}

	seen := make(map[string]bool)
	var views []View
	for _, r := range remote {
		key := strings.ToLower(r.Version)
		if seen[key] {
			continue
		}
		seen[key] = true
		_, isInstalled := installed[key]
		views = append(views, View{
			Version:      r.Version,
			LastModified: r.LastModified,
			SizeBytes:    r.SizeBytes,
			Installed:    isInstalled,
			Active:       active != "" && strings.EqualFold(r.Version, active),
		})
	}

	for _, e := range local {
		key := strings.ToLower(e.Version)
		if seen[key] {
			continue
		}
		seen[key] = true
		views = append(views, View{
			Version:   e.Version,
			SizeBytes: e.SizeBytes,
			Installed: true,
			LocalOnly: true,
			Active:    active != "" && strings.EqualFold(e.Version, active),
		})
	}

	sortViews(views)
	return views
}

// Window truncates views to at most limit entries, then pins back in any
// installed or active version that fell outside the cut. limit <= 0 means
// no truncation. The returned Truncated flag reports whether anything was
// actually dropped.
func Window(views []View, limit int) ([]View, bool) {
	if limit <= 0 || len(views) <= limit {
		return views, false
	}

	kept := make([]View, 0, limit)
	kept = append(kept, views[:limit]...)
	truncated := false
	for _, v := range views[limit:] {
		if v.Installed || v.Active {
			kept = append(kept, v)
		} else {
			truncated = true
		}
	}

	sortViews(kept)
	return kept, truncated
}

// Summarize builds the sink metadata for a windowed view.
func Summarize(all, shown []View, active string, truncated bool) Summary {
	return Summary{
		ActiveVersion: active,
		Total:         len(all),
		Shown:         len(shown),
		Truncated:     truncated,
	}
}

func sortViews(views []View) {
	sort.SliceStable(views, func(i, j int) bool {
		return version.CompareStrings(views[i].Version, views[j].Version) > 0
	})
}
