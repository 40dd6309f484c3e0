// Package config defines core configuration types for retab.
// These types are pure data structures with no dependencies on Viper or other config loaders.
package config

import (
	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/language"
)

// Style names an indentation style as it appears in config files.
type Style string

const (
	StyleTab   Style = "tab"
	StyleSpace Style = "space"
)

// IsValid returns true if the style is a recognized name. Both singular
// and plural spellings are accepted.
func (s Style) IsValid() bool {
	_, err := indent.ParseStyle(string(s))
	return err == nil
}

// Indent converts the style name to its indent.Style value.
func (s Style) Indent() (indent.Style, error) {
	return indent.ParseStyle(string(s))
}

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar" or "none"
}

// Backup modes.
const (
	BackupModeSidecar = "sidecar"
	BackupModeNone    = "none"
)

// OutputFormat specifies the output format for results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the output format is recognized.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// AutoTabSize requests per-file tab size guessing instead of a fixed width.
const AutoTabSize = 0

// Config is the root configuration structure for retab.
type Config struct {
	// Style selects the indentation character ("tab" or "space").
	Style Style `mapstructure:"style" yaml:"style"`

	// TabSize is the column width of one indentation level.
	// AutoTabSize (0) guesses per file from content.
	TabSize int `mapstructure:"tab_size" yaml:"tab_size"`

	// FinalNewline ensures rewritten files end with exactly one newline.
	FinalNewline bool `mapstructure:"final_newline" yaml:"final_newline"`

	// TrimTrailing strips trailing whitespace from rewritten lines.
	TrimTrailing bool `mapstructure:"trim_trailing" yaml:"trim_trailing"`

	// Write applies changes to disk. When false the command only checks.
	Write bool `mapstructure:"write" yaml:"write"`

	// Diff prints unified diffs instead of writing.
	Diff bool `mapstructure:"diff" yaml:"diff"`

	// Strict escalates warnings (skipped files, detection failures) to a
	// non-zero exit.
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// Jobs specifies the number of parallel workers (0 = CPU count).
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"format" yaml:"format"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Backups configures backup behavior for written files.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// Languages contains per-language overrides and user-defined
	// languages, keyed by language id.
	Languages map[string]language.Override `mapstructure:"languages" yaml:"languages,omitempty"`

	// CLI-level options (not persisted to config files).

	// Language pins the language for reindenting instead of per-file
	// detection.
	Language string `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Style:        StyleTab,
		TabSize:      indent.DefaultTabSize,
		FinalNewline: false,
		TrimTrailing: false,
		Jobs:         0, // 0 means use GOMAXPROCS
		Format:       FormatText,
		Ignore:       nil,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    BackupModeSidecar,
		},
		Languages: make(map[string]language.Override),
	}
}

// IndentStyle converts the configured style name to an indent.Style.
func (c *Config) IndentStyle() (indent.Style, error) {
	return c.Style.Indent()
}

// BackupsEnabled reports whether backups should be written, honoring the
// CLI-level override.
func (c *Config) BackupsEnabled() bool {
	if c.NoBackups {
		return false
	}
	return c.Backups.Enabled && c.Backups.Mode != BackupModeNone
}

// Registry builds a language registry from the builtins plus any
// configured overrides. The default registry is never mutated.
func (c *Config) Registry() (*language.Registry, error) {
	reg := language.DefaultRegistry.Clone()
	if len(c.Languages) == 0 {
		return reg, nil
	}
	if err := language.ApplyOverrides(reg, c.Languages); err != nil {
		return nil, err
	}
	return reg, nil
}
