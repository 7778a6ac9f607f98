package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// Provider resolves the configuration the engines consume: the install
// root and the timeout/retry knobs. Resolution order is environment
// variable, then the optional settings file under the install root, then
// the built-in default. Engines never read ambient state themselves; they
// take values from a Provider so tests can point them at arbitrary roots.
type Provider struct {
	settings *Settings
}

// NewProvider creates a Provider, loading the settings file if one exists.
func NewProvider() *Provider {
	p := &Provider{}
	if s, err := LoadSettings(p.InstallRoot()); err == nil {
		p.settings = s
	}
	return p
}

// InstallRoot returns the absolute directory all product state lives under.
func (p *Provider) InstallRoot() string {
	if root := os.Getenv(EnvHome); root != "" {
		return root
	}
	return DefaultInstallRoot()
}

// DefaultInstallRoot returns the per-OS default install root.
func DefaultInstallRoot() string {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "pvm")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Last resort; a relative root still yields a working layout.
		return ".pvm"
	}
	return filepath.Join(home, ".pvm")
}

// DownloadTimeout returns the timeout for a single archive download.
func (p *Provider) DownloadTimeout() time.Duration {
	if d := durationFromEnv(EnvDownloadTimeout); d > 0 {
		return d
	}
	if p.settings != nil && p.settings.DownloadTimeoutMinutes > 0 {
		return time.Duration(p.settings.DownloadTimeoutMinutes) * time.Minute
	}
	return DefaultDownloadTimeout
}

// ProbeTimeout returns the timeout for a version-probe subprocess.
func (p *Provider) ProbeTimeout() time.Duration {
	if d := durationFromEnv(EnvProbeTimeout); d > 0 {
		return d
	}
	return DefaultProbeTimeout
}

// MaxRetries returns how many times a failed download is retried.
func (p *Provider) MaxRetries() int {
	if v := os.Getenv(EnvMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	if p.settings != nil && p.settings.MaxRetries > 0 {
		return p.settings.MaxRetries
	}
	return DefaultMaxRetries
}

// RetryDelay returns the base delay between download retries.
func (p *Provider) RetryDelay() time.Duration {
	if d := durationFromEnv(EnvRetryDelay); d > 0 {
		return d
	}
	return DefaultRetryDelay
}

// DefaultKeep returns the purge retention count used when none is given.
func (p *Provider) DefaultKeep() int {
	if p.settings != nil && p.settings.DefaultKeep > 0 {
		return p.settings.DefaultKeep
	}
	return DefaultKeepCount
}

func durationFromEnv(key string) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 0
}
