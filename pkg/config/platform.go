package config

import (
	"runtime"
	"strings"
)

// Platform strings as they appear in artifact names and listing prefixes.
const (
	PlatformLinuxX64    = "linux-x64"
	PlatformLinuxArm64  = "linux-arm64"
	PlatformDarwinX64   = "darwin-x64"
	PlatformDarwinArm64 = "darwin-arm64"
	PlatformWinX64      = "win-x64"
)

// CurrentPlatform returns the platform string for the running OS and
// architecture, mapped to the vendor's artifact naming convention.
func CurrentPlatform() string {
	return platformFor(runtime.GOOS, runtime.GOARCH)
}

func platformFor(goos, goarch string) string {
	arch := "x64"
	if goarch == "arm64" {
		arch = "arm64"
	}
	switch goos {
	case "windows":
		return "win-" + arch
	case "darwin":
		return "darwin-" + arch
	default:
		return "linux-" + arch
	}
}

// IsWindowsPlatform reports whether a platform string targets Windows.
func IsWindowsPlatform(platform string) bool {
	return strings.HasPrefix(platform, "win-")
}

// DefaultArchiveExt returns the archive extension bucket artifacts use on
// the given platform: ZIP on Windows, tar.gz elsewhere.
func DefaultArchiveExt(platform string) string {
	if IsWindowsPlatform(platform) {
		return ExtZip
	}
	return ExtTarGz
}
