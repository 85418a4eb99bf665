package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoader()
	loader.configPaths = []string{filepath.Join(t.TempDir(), "missing.yaml")}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Display.Theme != "default" {
		t.Errorf("Expected default theme, got %s", cfg.Display.Theme)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	configContent := `version: "1.0"
display:
  theme: "minimal"
  show_as_json: true
source:
  url: "https://errors.example.com/api/event"
  timeout: 60s
output:
  default_format: "markdown"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Display.Theme != "minimal" {
		t.Errorf("Expected theme minimal, got %s", cfg.Display.Theme)
	}
	if !cfg.Display.ShowAsJSON {
		t.Errorf("Expected show_as_json to be true")
	}
	if cfg.Source.Timeout != 60*time.Second {
		t.Errorf("Expected source timeout 60s, got %v", cfg.Source.Timeout)
	}
	if cfg.Output.DefaultFormat != "markdown" {
		t.Errorf("Expected output format markdown, got %s", cfg.Output.DefaultFormat)
	}

	// Keys missing from the file keep their defaults
	if !cfg.Preferences.Persist {
		t.Errorf("Expected persist default to survive a partial file")
	}
	if cfg.Display.Width != 100 {
		t.Errorf("Expected default width 100, got %d", cfg.Display.Width)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	tempDir := t.TempDir()
	high := filepath.Join(tempDir, "high.yaml")
	low := filepath.Join(tempDir, "low.yaml")

	if err := os.WriteFile(low, []byte("display:\n  theme: minimal\n  width: 80\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(high, []byte("display:\n  theme: high-contrast\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	loader.configPaths = []string{high, low}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Display.Theme != "high-contrast" {
		t.Errorf("Expected higher priority theme, got %s", cfg.Display.Theme)
	}
	if cfg.Display.Width != 80 {
		t.Errorf("Expected width from lower priority file, got %d", cfg.Display.Width)
	}
}

func TestLoadConfigBrokenFileWarns(t *testing.T) {
	tempDir := t.TempDir()
	broken := filepath.Join(tempDir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("display: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	loader := NewLoader().WithWarnFunc(func(format string, args ...interface{}) {
		warnings = append(warnings, format)
	})
	loader.configPaths = []string{broken}

	if _, err := loader.LoadConfig(""); err != nil {
		t.Fatalf("Expected broken search-path file to be skipped, got %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected one warning, got %d", len(warnings))
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
display:
  theme: "minimal
  width: 90
`

	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := NewLoader().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ERRCARD_DISPLAY_THEME", "high-contrast")
	t.Setenv("ERRCARD_DISPLAY_WIDTH", "120")
	t.Setenv("ERRCARD_PREFERENCES_PERSIST", "false")
	t.Setenv("ERRCARD_SOURCE_TOKEN", "$ERRCARD_TEST_TOKEN")
	t.Setenv("ERRCARD_TEST_TOKEN", "secret")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Display.Theme != "high-contrast" {
		t.Errorf("Expected theme high-contrast, got %s", cfg.Display.Theme)
	}
	if cfg.Display.Width != 120 {
		t.Errorf("Expected width 120, got %d", cfg.Display.Width)
	}
	if cfg.Preferences.Persist {
		t.Errorf("Expected persist to be false")
	}
	if cfg.Source.Token != "secret" {
		t.Errorf("Expected token resolved from env reference, got %q", cfg.Source.Token)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "ERRCARD_DISPLAY_WIDTH", "wide"},
		{"invalid bool", "ERRCARD_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "ERRCARD_SOURCE_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			cfg := DefaultConfig()
			if err := NewLoader().applyEnvOverrides(cfg); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestSampleConfigsParse(t *testing.T) {
	for name, content := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
				t.Fatalf("Sample config does not parse: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Sample config does not validate: %v", err)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	var duration time.Duration
	if err := parseDuration("30s", &duration); err != nil || duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v (err %v)", duration, err)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration")
	}

	var value int
	if err := parseInt("42", &value); err != nil || value != 42 {
		t.Errorf("Expected 42, got %d (err %v)", value, err)
	}

	var flag bool
	if err := parseBool("true", &flag); err != nil || !flag {
		t.Errorf("Expected true, got %v (err %v)", flag, err)
	}
	if err := parseBool("not-a-bool", &flag); err == nil {
		t.Error("Expected error for invalid bool")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y.yaml"); got != filepath.Join(home, "x/y.yaml") {
		t.Errorf("Unexpected expansion %s", got)
	}
	if got := ExpandPath("/abs/path.yaml"); got != "/abs/path.yaml" {
		t.Errorf("Absolute path should be unchanged, got %s", got)
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "system file access", path: "/etc/passwd.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
