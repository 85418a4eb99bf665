package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# errcard configuration
version: "1.0"

display:
  # Color theme: default, high-contrast, minimal
  theme: default
  # Color output: auto, always, never
  color_mode: auto
  # Absolute timestamp format next to the relative time label
  timestamp_format: "2006-01-02 15:04:05"
  # Width used by the static renderer
  width: 100
  # Initial stack display (text and json are mutually exclusive)
  show_as_text: false
  show_as_json: false
  # Show vendor (non in-app) frames
  show_all_frames: false

source:
  # HTTP endpoint returning {"event": ..., "issue": ...}
  url: ""
  # Bearer token, or "$VAR" to read it from the environment
  token: ""
  timeout: 15s
  retries: 2

preferences:
  # Where the "show context" preference is remembered
  path: ~/.config/errcard/preferences.yaml
  persist: true

fix:
  # Resolved frames per exception included in the fix prompt
  max_frames: 10
  include_context: true

output:
  # Static output format: text, json, markdown, table
  default_format: text
  verbose: false
`
}

// MinimalSampleConfig returns a compact configuration file
func MinimalSampleConfig() string {
	return `version: "1.0"
display:
  theme: default
preferences:
  persist: true
output:
  default_format: text
`
}
