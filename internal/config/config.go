package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version     string            `yaml:"version" json:"version"`
	Display     DisplayConfig     `yaml:"display" json:"display"`
	Source      SourceConfig      `yaml:"source" json:"source"`
	Preferences PreferencesConfig `yaml:"preferences" json:"preferences"`
	Fix         FixConfig         `yaml:"fix" json:"fix"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// DisplayConfig configures how the exception card is drawn
type DisplayConfig struct {
	Theme           string `yaml:"theme" json:"theme"`                       // default|high-contrast|minimal
	ColorMode       string `yaml:"color_mode" json:"color_mode"`             // auto|always|never
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"` // time format string
	Width           int    `yaml:"width" json:"width"`                       // static render width
	ShowAsText      bool   `yaml:"show_as_text" json:"show_as_text"`         // start in text mode
	ShowAsJSON      bool   `yaml:"show_as_json" json:"show_as_json"`         // start in json mode
	ShowAllFrames   bool   `yaml:"show_all_frames" json:"show_all_frames"`   // show vendor frames
}

// SourceConfig configures where events are loaded from
type SourceConfig struct {
	URL     string        `yaml:"url" json:"url"`         // HTTP endpoint returning an event document
	Token   string        `yaml:"token" json:"token"`     // bearer token (support env var reference)
	Timeout time.Duration `yaml:"timeout" json:"timeout"` // request timeout
	Retries int           `yaml:"retries" json:"retries"` // retry count
}

// PreferencesConfig configures the persisted card preferences
type PreferencesConfig struct {
	Path    string `yaml:"path" json:"path"`       // preference file location
	Persist bool   `yaml:"persist" json:"persist"` // write preferences back on change
}

// FixConfig configures the AI fix prompt
type FixConfig struct {
	MaxFrames      int  `yaml:"max_frames" json:"max_frames"`           // resolved frames per exception
	IncludeContext bool `yaml:"include_context" json:"include_context"` // add source context lines
}

// OutputConfig configures non-interactive output
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|table
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Display: DisplayConfig{
			Theme:           "default",
			ColorMode:       "auto",
			TimestampFormat: "2006-01-02 15:04:05",
			Width:           100,
		},
		Source: SourceConfig{
			Timeout: 15 * time.Second,
			Retries: 2,
		},
		Preferences: PreferencesConfig{
			Path:    "~/.config/errcard/preferences.yaml",
			Persist: true,
		},
		Fix: FixConfig{
			MaxFrames:      10,
			IncludeContext: true,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateDisplayConfig(); err != nil {
		return err
	}
	if err := c.validateSourceConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if c.Fix.MaxFrames < 1 {
		return fmt.Errorf("fix.max_frames must be greater than 0")
	}
	return nil
}

// validateDisplayConfig validates display-related configuration
func (c *Config) validateDisplayConfig() error {
	if c.Display.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Display.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Display.Theme)
		}
	}
	if c.Display.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Display.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Display.ColorMode)
		}
	}
	if c.Display.ShowAsText && c.Display.ShowAsJSON {
		return fmt.Errorf("display.show_as_text and display.show_as_json are mutually exclusive")
	}
	if c.Display.Width < 40 {
		return fmt.Errorf("display.width must be at least 40")
	}
	return nil
}

// validateSourceConfig validates source-related configuration
func (c *Config) validateSourceConfig() error {
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout must be non-negative")
	}
	if c.Source.Retries < 0 {
		return fmt.Errorf("source.retries must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"table":    true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, table)", c.Output.DefaultFormat)
		}
	}
	return nil
}
