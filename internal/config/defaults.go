package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# chlog configuration
# Priority: CHLOG_* env vars > .chlog.yml > ~/.config/chlog/config.yml > defaults

file: CHANGELOG.md                    # Changelog to update
output_suffix: _                      # Output is written to <file><suffix>
minor: false                          # Bump minor instead of patch by default
plain: false                          # Disable colors and icons
debug: false                          # Debug logging to stderr
`
}

// GetDefaults returns the default configuration values keyed by koanf path.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"file":          "CHANGELOG.md",
		"output_suffix": "_",
		"minor":         false,
		"plain":         false,
		"debug":         false,
	}
}
