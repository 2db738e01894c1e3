// Package config provides configuration helpers for jetcam commands.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pointtoexplain/go-jetcam/pkg/camera"
)

// Defaults for the serve command.
const (
	DefaultPort        = "8800"
	DefaultSnapshotDir = "snapshots"
)

// Source returns the camera source from the JETCAM_SOURCE env var.
// Falls back to the provided default if not set.
func Source(def string) string {
	if v := os.Getenv("JETCAM_SOURCE"); v != "" {
		return v
	}
	return def
}

// Device returns the device index from the JETCAM_DEVICE env var.
func Device(def int) int {
	if v := os.Getenv("JETCAM_DEVICE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Port returns the API port from the JETCAM_PORT env var.
func Port(def string) string {
	if v := os.Getenv("JETCAM_PORT"); v != "" {
		return v
	}
	return def
}

// LogLevel returns the log level from the JETCAM_LOG_LEVEL env var.
func LogLevel() string {
	if v := os.Getenv("JETCAM_LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}

// Settings is the optional YAML settings file for the serve command.
type Settings struct {
	Camera      camera.Config `yaml:"camera"`
	Port        string        `yaml:"port"`
	SnapshotDir string        `yaml:"snapshot_dir"`
	LogLevel    string        `yaml:"log_level"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		Camera:      camera.DefaultConfig(),
		Port:        Port(DefaultPort),
		SnapshotDir: DefaultSnapshotDir,
		LogLevel:    LogLevel(),
	}
}

// LoadSettings reads a YAML settings file on top of the defaults, so a
// partial file only overrides what it names.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}

	if violations := s.Camera.Validate(); len(violations) > 0 {
		return s, fmt.Errorf("settings camera config: %v", violations)
	}

	return s, nil
}
