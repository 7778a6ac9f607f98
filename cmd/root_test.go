package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/praxis-tools/pvm/pkg/reconcile"
)

func TestResolveProduct(t *testing.T) {
	p, err := resolveProduct([]string{"studio"})
	if err != nil {
		t.Fatalf("resolveProduct: %v", err)
	}
	if p.Name != "studio" {
		t.Errorf("resolved %q", p.Name)
	}

	if _, err := resolveProduct([]string{"STUDIO"}); err != nil {
		t.Errorf("product names should be case-insensitive: %v", err)
	}

	if _, err := resolveProduct(nil); err == nil {
		t.Error("missing product argument should error")
	}
	if _, err := resolveProduct([]string{"nonsense"}); err == nil {
		t.Error("unknown product should error")
	} else if !strings.Contains(err.Error(), "studio") {
		t.Errorf("error should list the supported products: %v", err)
	}
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		view reconcile.View
		want string
	}{
		{reconcile.View{Active: true, Installed: true}, "active"},
		{reconcile.View{Installed: true}, "installed"},
		{reconcile.View{Installed: true, LocalOnly: true}, "local-only"},
		{reconcile.View{}, "available"},
	}
	for _, tc := range cases {
		if got := statusLabel(tc.view); got != tc.want {
			t.Errorf("statusLabel(%+v) = %q, want %q", tc.view, got, tc.want)
		}
	}
}

func TestSizeLabel(t *testing.T) {
	if got := sizeLabel(0); got != "-" {
		t.Errorf("sizeLabel(0) = %q", got)
	}
	if got := sizeLabel(512 * 1024); got != "512 KB" {
		t.Errorf("sizeLabel(512KB) = %q", got)
	}
	if got := sizeLabel(3 * 1024 * 1024); got != "3.0 MB" {
		t.Errorf("sizeLabel(3MB) = %q", got)
	}
}

func TestDateLabel(t *testing.T) {
	if got := dateLabel(time.Time{}); got != "" {
		t.Errorf("zero time should render empty, got %q", got)
	}
	ts := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	if got := dateLabel(ts); got != "2024-06-10" {
		t.Errorf("dateLabel = %q", got)
	}
}

func TestOrLatest(t *testing.T) {
	if orLatest("") != "latest" || orLatest("8.1") != "8.1" {
		t.Error("orLatest mishandled its input")
	}
}
