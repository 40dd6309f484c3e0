package configloader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/language"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "languages.python.indent.increase").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatJSON:    true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

// knownBackupModes lists valid backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	// Validate style
	if cfg.Style != "" && !cfg.Style.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "style",
			Value:   cfg.Style,
			Message: fmt.Sprintf("invalid style %q; must be one of: tab, space", cfg.Style),
		})
	}

	// Validate tab_size (zero requests per-file guessing)
	if cfg.TabSize != config.AutoTabSize {
		if err := indent.ValidateTabSize(cfg.TabSize); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "tab_size",
				Value:   cfg.TabSize,
				Message: fmt.Sprintf("tab size must be 0 (auto) or between %d and %d", indent.MinTabSize, indent.MaxTabSize),
			})
		}
	}

	// Validate format
	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, diff, summary", cfg.Format),
		})
	}

	// Validate jobs
	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	// Validate backups.mode
	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode),
		})
	}

	// Validate language overrides
	validateLanguages(cfg, result)

	// Validate ignore patterns
	validateIgnorePatterns(cfg, result)

	return result
}

// validateLanguages checks language overrides for errors and warnings.
func validateLanguages(cfg *config.Config, result *ValidationResult) {
	registry := language.DefaultRegistry

	for id, ov := range cfg.Languages {
		// An id that matches no builtin defines a new language. That is
		// allowed but usually a typo, so flag it.
		if _, exists := registry.Lookup(id); !exists {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "languages." + id,
				Value:   id,
				Message: fmt.Sprintf("unknown language %q; the override defines a new language", id),
			})
		}

		if ov.Style != "" && !config.Style(ov.Style).IsValid() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "languages." + id + ".style",
				Value:   ov.Style,
				Message: fmt.Sprintf("invalid style %q; must be one of: tab, space", ov.Style),
			})
		}

		if ov.TabSize != 0 {
			if err := indent.ValidateTabSize(ov.TabSize); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Field:   "languages." + id + ".tab_size",
					Value:   ov.TabSize,
					Message: fmt.Sprintf("tab size must be between %d and %d", indent.MinTabSize, indent.MaxTabSize),
				})
			}
		}

		validateIndentPatterns(id, ov.Indent, result)
	}
}

// validateIndentPatterns checks that indent rule patterns compile.
func validateIndentPatterns(id string, patterns language.IndentPatterns, result *ValidationResult) {
	checks := []struct {
		field   string
		pattern string
	}{
		{"increase", patterns.Increase},
		{"decrease", patterns.Decrease},
		{"indent_next_line", patterns.IndentNextLine},
		{"unindented", patterns.Unindented},
	}

	for _, check := range checks {
		if check.pattern == "" {
			continue
		}
		if _, err := regexp.Compile(check.pattern); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "languages." + id + ".indent." + check.field,
				Value:   check.pattern,
				Message: fmt.Sprintf("invalid pattern: %v", err),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		_, err := filepath.Match(pattern, "")
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	// Add file path to all errors and warnings
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidStyle returns true if the style string is a recognized name.
func IsValidStyle(s string) bool {
	return config.Style(s).IsValid()
}
