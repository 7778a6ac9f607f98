package config

import "time"

// Environment variable names
const (
	EnvHome            = "PVM_HOME"
	EnvVerbose         = "PVM_VERBOSE"
	EnvDownloadTimeout = "PVM_DOWNLOAD_TIMEOUT"
	EnvProbeTimeout    = "PVM_PROBE_TIMEOUT"
	EnvMaxRetries      = "PVM_MAX_RETRIES"
	EnvRetryDelay      = "PVM_RETRY_DELAY"
)

// Timeout and retry defaults
const (
	DefaultDownloadTimeout = 10 * time.Minute
	DefaultProbeTimeout    = 10 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryDelay      = 2 * time.Second
	DefaultKeepCount       = 2

	MaxRedirects = 10
)

// Upstream endpoints
const (
	DownloadsBase = "https://downloads.praxis.dev"
	MavenRepoBase = "https://repo.praxis.dev/releases"
)

// File extensions
const (
	ExtZip   = ".zip"
	ExtTarGz = ".tar.gz"
	ExtTarXz = ".tar.xz"
	ExtTgz   = ".tgz"
	ExtExe   = ".exe"
)

// ActiveDirName is the reserved directory name holding the activated copy
// of a product. Version directories always contain a dot, so the two can
// never collide.
const ActiveDirName = "active"
