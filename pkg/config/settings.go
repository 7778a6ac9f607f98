package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// Settings is the optional settings file under the install root. Everything
// in it has a sensible default, so a missing file is the common case.
type Settings struct {
	DownloadTimeoutMinutes int `json:"download_timeout_minutes,omitempty" yaml:"download_timeout_minutes,omitempty"`
	MaxRetries             int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
	DefaultKeep            int `json:"default_keep,omitempty" yaml:"default_keep,omitempty"`
}

// settingsFiles are tried in order of preference.
var settingsFiles = []string{
	"config.json5",
	"config.yml",
	"config.yaml",
	"config.json",
}

// LoadSettings loads the settings file from the install root.
func LoadSettings(root string) (*Settings, error) {
	for _, filename := range settingsFiles {
		path := filepath.Join(root, filename)
		if _, err := os.Stat(path); err == nil {
			return loadSettingsFile(path)
		}
	}
	return nil, fmt.Errorf("no settings file found in %s (tried: %s)",
		root, strings.Join(settingsFiles, ", "))
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json5", ".json":
		// JSON5 accepts plain JSON too, with comments allowed in both.
		err = json5.Unmarshal(data, &s)
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("unsupported settings file format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return &s, nil
}
