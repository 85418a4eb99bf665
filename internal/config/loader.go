package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.errcard.yaml",               // Project-specific config (highest priority)
	"~/.config/errcard/config.yaml", // User config
	"/etc/errcard/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// WithWarnFunc routes loader warnings to fn
func (l *Loader) WithWarnFunc(fn func(format string, args ...interface{})) *Loader {
	if fn != nil {
		l.warn = fn
	}
	return l
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.errcard.yaml
// 4. ~/.config/errcard/config.yaml
// 5. /etc/errcard/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := ExpandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config.
// Keys absent from the file keep their current value.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	merged := *config
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	*config = merged

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Display Config
		"ERRCARD_DISPLAY_THEME":            func(v string) error { config.Display.Theme = v; return nil },
		"ERRCARD_DISPLAY_COLOR_MODE":       func(v string) error { config.Display.ColorMode = v; return nil },
		"ERRCARD_DISPLAY_TIMESTAMP_FORMAT": func(v string) error { config.Display.TimestampFormat = v; return nil },
		"ERRCARD_DISPLAY_WIDTH":            func(v string) error { return parseInt(v, &config.Display.Width) },
		"ERRCARD_DISPLAY_SHOW_ALL_FRAMES":  func(v string) error { return parseBool(v, &config.Display.ShowAllFrames) },

		// Source Config
		"ERRCARD_SOURCE_URL":     func(v string) error { config.Source.URL = v; return nil },
		"ERRCARD_SOURCE_TOKEN":   func(v string) error { config.Source.Token = v; return nil },
		"ERRCARD_SOURCE_TIMEOUT": func(v string) error { return parseDuration(v, &config.Source.Timeout) },
		"ERRCARD_SOURCE_RETRIES": func(v string) error { return parseInt(v, &config.Source.Retries) },

		// Preferences Config
		"ERRCARD_PREFERENCES_PATH":    func(v string) error { config.Preferences.Path = v; return nil },
		"ERRCARD_PREFERENCES_PERSIST": func(v string) error { return parseBool(v, &config.Preferences.Persist) },

		// Fix Config
		"ERRCARD_FIX_MAX_FRAMES":      func(v string) error { return parseInt(v, &config.Fix.MaxFrames) },
		"ERRCARD_FIX_INCLUDE_CONTEXT": func(v string) error { return parseBool(v, &config.Fix.IncludeContext) },

		// Output Config
		"ERRCARD_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"ERRCARD_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Token may reference another variable, e.g. "$ERROR_TRACKING_TOKEN"
	if strings.HasPrefix(config.Source.Token, "$") {
		config.Source.Token = os.Getenv(strings.TrimPrefix(config.Source.Token, "$"))
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, ExpandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := ExpandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	return fileExists(path)
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
