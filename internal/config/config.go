package config

import "errors"

// Configuration defaults.
const (
	// DefaultScanMaxDepth is the default depth limit, 0 meaning unlimited.
	DefaultScanMaxDepth = 0

	// DefaultScanFormat is the default scan output format.
	DefaultScanFormat = FormatText

	// DefaultOutputColor enables colored terminal output by default.
	DefaultOutputColor = true
)

// Supported scan output formats.
const (
	// FormatText renders an indented tree to the terminal.
	FormatText = "text"

	// FormatYAML renders the tree as a YAML document.
	FormatYAML = "yaml"
)

// Validation errors.
var (
	// ErrInvalidMaxDepth is returned for negative depth limits.
	ErrInvalidMaxDepth = errors.New("config: scan.max_depth must be non-negative")

	// ErrInvalidFormat is returned for unknown scan output formats.
	ErrInvalidFormat = errors.New("config: scan.format must be text or yaml")
)

// Config is the top-level configuration struct for arbor.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Scan   ScanConfig   `mapstructure:"scan"`
	Output OutputConfig `mapstructure:"output"`
}

// ScanConfig holds directory scan settings.
type ScanConfig struct {
	// MaxDepth limits how deep the scan renders, 0 for unlimited.
	MaxDepth int `mapstructure:"max_depth"`

	// DirsOnly hides files and renders directories only.
	DirsOnly bool `mapstructure:"dirs_only"`

	// ShowHidden includes dotfiles in the output.
	ShowHidden bool `mapstructure:"show_hidden"`

	// Format selects the output renderer, text or yaml.
	Format string `mapstructure:"format"`
}

// OutputConfig holds terminal output settings.
type OutputConfig struct {
	Color bool `mapstructure:"color"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.Scan.Format != FormatText && c.Scan.Format != FormatYAML {
		return ErrInvalidFormat
	}

	return nil
}
