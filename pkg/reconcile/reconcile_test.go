package reconcile

import (
	"testing"
	"time"

	"github.com/praxis-tools/pvm/pkg/catalog"
	"github.com/praxis-tools/pvm/pkg/inventory"
)

func record(v string, day int) catalog.Record {
	return catalog.Record{
		Version:      v,
		LastModified: time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		SizeBytes:    1000,
	}
}

func TestReconcileFreshListing(t *testing.T) {
	remote := []catalog.Record{record("2.1.15.1477", 10), record("2.1.10.8038", 1)}
	local := []inventory.Entry{{Version: "2.1.10.8038", SizeBytes: 500}}

	views := Reconcile(remote, local, "2.1.10.8038")
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Version != "2.1.15.1477" || views[0].Installed || views[0].Active {
		t.Errorf("newest remote should be first and untagged: %+v", views[0])
	}
	if views[1].Version != "2.1.10.8038" || !views[1].Installed || !views[1].Active || views[1].LocalOnly {
		t.Errorf("installed+active version mis-tagged: %+v", views[1])
	}
}

func TestReconcileCompleteness(t *testing.T) {
	remote := []catalog.Record{record("3.0.0", 3), record("2.0.0", 2)}
	local := []inventory.Entry{{Version: "2.0.0"}, {Version: "1.5.0"}}

	views := Reconcile(remote, local, "")
	counts := make(map[string]int)
	for _, v := range views {
		counts[v.Version]++
	}
	for _, want := range []string{"3.0.0", "2.0.0", "1.5.0"} {
		if counts[want] != 1 {
			t.Errorf("version %s should appear exactly once, got %d", want, counts[want])
		}
	}

	for _, v := range views {
		switch v.Version {
		case "2.0.0":
			if !v.Installed || v.LocalOnly {
				t.Errorf("2.0.0 should be installed and not local-only: %+v", v)
			}
		case "1.5.0":
			if !v.Installed || !v.LocalOnly {
				t.Errorf("1.5.0 should be installed and local-only: %+v", v)
			}
		case "3.0.0":
			if v.Installed || v.LocalOnly {
				t.Errorf("3.0.0 should be remote-only: %+v", v)
			}
		}
	}
}

func TestReconcileCaseInsensitiveUnion(t *testing.T) {
	remote := []catalog.Record{{Version: "1.2.3-RC.1"}}
	local := []inventory.Entry{{Version: "1.2.3-rc.1"}}

	views := Reconcile(remote, local, "")
	if len(views) != 1 {
		t.Fatalf("case-differing duplicates should union to one view, got %d", len(views))
	}
	if !views[0].Installed || views[0].LocalOnly {
		t.Errorf("unioned view mis-tagged: %+v", views[0])
	}
}

func TestWindowPinsInstalledAndActive(t *testing.T) {
	remote := []catalog.Record{
		record("5.0.0", 5), record("4.0.0", 4), record("3.0.0", 3),
		record("2.0.0", 2), record("1.0.0", 1),
	}
	local := []inventory.Entry{{Version: "1.0.0"}}

	views := Reconcile(remote, local, "1.0.0")
	shown, truncated := Window(views, 2)
	if !truncated {
		t.Error("window of 2 over 5 versions should report truncation")
	}

	found := false
	for _, v := range shown {
		if v.Version == "1.0.0" {
			found = true
		}
	}
	if !found {
		t.Errorf("active+installed version must be pinned into the window: %+v", shown)
	}
	if len(shown) != 3 {
		t.Errorf("expected top-2 plus pinned 1.0.0, got %+v", shown)
	}
	// Re-sorted after pinning: still descending.
	if shown[0].Version != "5.0.0" || shown[len(shown)-1].Version != "1.0.0" {
		t.Errorf("window should stay sorted descending: %+v", shown)
	}
}

func TestWindowNoTruncationNeeded(t *testing.T) {
	views := Reconcile([]catalog.Record{record("1.0.0", 1)}, nil, "")
	shown, truncated := Window(views, 10)
	if truncated || len(shown) != 1 {
		t.Errorf("small view should pass through, got %+v (%v)", shown, truncated)
	}
}

func TestSummarize(t *testing.T) {
	all := Reconcile([]catalog.Record{record("2.0.0", 2), record("1.0.0", 1)}, nil, "")
	shown, truncated := Window(all, 1)
	s := Summarize(all, shown, "", truncated)
	if s.Total != 2 || s.Shown != 1 || !s.Truncated {
		t.Errorf("unexpected summary: %+v", s)
	}
}
