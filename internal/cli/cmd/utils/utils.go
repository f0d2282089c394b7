package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide"
	"github.com/tidwall/pretty"
)

// ErrConfigExists is returned by InstallDefaultConfig when a config file is
// already in place.
var ErrConfigExists = errors.New("config file already exists")

// CanonicalPath expands a leading ~ to $HOME.
func CanonicalPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" {
		return os.Getenv("HOME")
	}

	if strings.HasPrefix(path, "~/") {
		homeDir := os.Getenv("HOME")
		return strings.Replace(path, "~", homeDir, 1)
	}

	return path
}

func PrintJSONColored(data any) {
	j, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Errorf("Error marshalling JSON: %v", err)
		return
	}

	jPretty := pretty.Color(j, nil)
	log.Info(string(jPretty))
}

// ConfigPath is where InstallDefaultConfig writes the config file.
func ConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "smoothslide", "smoothslide.toml")
}

// InstallDefaultConfig writes the embedded default config and returns its
// path. An existing file is left alone.
func InstallDefaultConfig() (string, error) {
	configPath := ConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, fmt.Errorf("%w at %v", ErrConfigExists, configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(smoothslide.DefaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
