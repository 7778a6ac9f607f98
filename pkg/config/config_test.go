package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInstallRootFromEnv(t *testing.T) {
	original := os.Getenv(EnvHome)
	defer func() {
		if original != "" {
			os.Setenv(EnvHome, original)
		} else {
			os.Unsetenv(EnvHome)
		}
	}()

	os.Setenv(EnvHome, "/opt/pvm")
	p := &Provider{}
	if got := p.InstallRoot(); got != "/opt/pvm" {
		t.Errorf("InstallRoot() = %q, want /opt/pvm", got)
	}

	os.Unsetenv(EnvHome)
	if got := p.InstallRoot(); got == "" {
		t.Error("InstallRoot() without env should fall back to the default")
	}
}

func TestTimeoutResolutionOrder(t *testing.T) {
	original := os.Getenv(EnvDownloadTimeout)
	defer func() {
		if original != "" {
			os.Setenv(EnvDownloadTimeout, original)
		} else {
			os.Unsetenv(EnvDownloadTimeout)
		}
	}()

	os.Setenv(EnvDownloadTimeout, "90s")
	p := &Provider{settings: &Settings{DownloadTimeoutMinutes: 5}}
	if got := p.DownloadTimeout(); got != 90*time.Second {
		t.Errorf("env should win over settings, got %v", got)
	}

	os.Unsetenv(EnvDownloadTimeout)
	if got := p.DownloadTimeout(); got != 5*time.Minute {
		t.Errorf("settings minutes value should apply, got %v", got)
	}

	p.settings = nil
	if got := p.DownloadTimeout(); got != DefaultDownloadTimeout {
		t.Errorf("default should apply, got %v", got)
	}
}

func TestLookupProduct(t *testing.T) {
	p, err := LookupProduct("Studio")
	if err != nil {
		t.Fatalf("LookupProduct(Studio) failed: %v", err)
	}
	if p.Name != "studio" || p.Family != "praxis" || p.Subfolder != "studio-cli" {
		t.Errorf("unexpected product: %+v", p)
	}

	if _, err := LookupProduct("paintbrush"); err == nil {
		t.Error("unknown product should be an error")
	}
}

func TestProductPaths(t *testing.T) {
	p, _ := LookupProduct("runner")
	root := "/data/pvm"
	if got := p.VersionDir(root, "2.1.10.8038"); got != filepath.Join(root, "praxis", "runner-cli", "2.1.10.8038") {
		t.Errorf("VersionDir = %q", got)
	}
	if got := p.ActiveDir(root); got != filepath.Join(root, "praxis", "runner-cli", "active") {
		t.Errorf("ActiveDir = %q", got)
	}
}

func TestDownloadURL(t *testing.T) {
	studio, _ := LookupProduct("studio")
	got := studio.DownloadURL("2.1.15.1477", PlatformLinuxX64)
	want := DownloadsBase + "/studio-cli/linux-x64/2.1.15.1477/studio-cli-2.1.15.1477-linux-x64.tar.gz"
	if got != want {
		t.Errorf("studio DownloadURL = %q, want %q", got, want)
	}

	if got := studio.DownloadURL("2.1.15.1477", PlatformWinX64); filepath.Ext(got) != ".zip" {
		t.Errorf("windows artifacts should be zip, got %q", got)
	}

	datakit, _ := LookupProduct("datakit")
	got = datakit.DownloadURL("8.1.23", PlatformLinuxX64)
	want = MavenRepoBase + "/dev/praxis/datakit-cli/8.1.23/datakit-cli-8.1.23-linux-x64.zip"
	if got != want {
		t.Errorf("datakit DownloadURL = %q, want %q", got, want)
	}
}

func TestLoadSettingsYAML(t *testing.T) {
	root := t.TempDir()
	content := "download_timeout_minutes: 20\nmax_retries: 5\n"
	if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(root)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.DownloadTimeoutMinutes != 20 || s.MaxRetries != 5 {
		t.Errorf("unexpected settings: %+v", s)
	}
}

func TestLoadSettingsJSON5(t *testing.T) {
	root := t.TempDir()
	content := `{
	// retries for flaky mirrors
	max_retries: 7,
}`
	if err := os.WriteFile(filepath.Join(root, "config.json5"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(root)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", s.MaxRetries)
	}
}

func TestLoadSettingsMissing(t *testing.T) {
	if _, err := LoadSettings(t.TempDir()); err == nil {
		t.Error("missing settings file should return an error")
	}
}
