package configloader

import (
	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/language"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	// Scalars: override overwrites base if set (non-zero value)
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	// TabSize zero means "guess per file", which is also the unset value,
	// so an override layer cannot force auto sizing over an explicit width.
	// CLI flag handling compensates by checking flag presence.
	if override.TabSize != 0 {
		result.TabSize = override.TabSize
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Language != "" {
		result.Language = override.Language
	}

	// Booleans: these are tricky because false is the zero value.
	// For Write, Diff, Strict etc. we check if they're true in override.
	// This means CLI --write will override, but config file cannot unset.
	if override.Write {
		result.Write = override.Write
	}
	if override.Diff {
		result.Diff = override.Diff
	}
	if override.Strict {
		result.Strict = override.Strict
	}
	if override.FinalNewline {
		result.FinalNewline = override.FinalNewline
	}
	if override.TrimTrailing {
		result.TrimTrailing = override.TrimTrailing
	}
	if override.NoBackups {
		result.NoBackups = override.NoBackups
	}

	// Backups: merge individual fields
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	// For Enabled, we need to handle it specially since false is meaningful
	// The BackupsConfig struct uses bool directly, so we can only detect
	// "true" being set. This is a limitation of the current config structure.
	if override.Backups.Enabled {
		result.Backups.Enabled = override.Backups.Enabled
	}

	// Maps: deep merge
	result.Languages = mergeLanguages(base.Languages, override.Languages)

	// Slices: override replaces base entirely if non-nil
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// mergeLanguages performs deep merge of language overrides.
// Both maps are iterated, with override's values taking precedence.
func mergeLanguages(base, override map[string]language.Override) map[string]language.Override {
	if base == nil && override == nil {
		return nil
	}
	if base == nil {
		// Return a copy of override
		result := make(map[string]language.Override, len(override))
		for key, val := range override {
			result[key] = val
		}
		return result
	}
	if override == nil {
		// Return a copy of base
		result := make(map[string]language.Override, len(base))
		for key, val := range base {
			result[key] = val
		}
		return result
	}

	// Create result with capacity for both
	result := make(map[string]language.Override, len(base)+len(override))

	// Copy all from base
	for key, val := range base {
		result[key] = val
	}

	// Merge from override (override takes precedence)
	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeOverride(existing, val)
		} else {
			result[key] = val
		}
	}

	return result
}

// mergeOverride merges individual language overrides.
// override's values take precedence over base's values, following the
// same field semantics the registry uses when applying an override.
func mergeOverride(base, override language.Override) language.Override {
	result := base

	if override.Name != "" {
		result.Name = override.Name
	}
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.TabSize != 0 {
		result.TabSize = override.TabSize
	}
	if override.Aliases != nil {
		result.Aliases = override.Aliases
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.LineComment != "" {
		result.LineComment = override.LineComment
	}
	if override.BlockCommentStart != "" {
		result.BlockCommentStart = override.BlockCommentStart
	}
	if override.BlockCommentEnd != "" {
		result.BlockCommentEnd = override.BlockCommentEnd
	}
	if override.Quotes != nil {
		result.Quotes = override.Quotes
	}
	if override.MultilineStrings != nil {
		result.MultilineStrings = override.MultilineStrings
	}
	if override.Brackets != nil {
		result.Brackets = override.Brackets
	}
	if override.Indent.Increase != "" {
		result.Indent.Increase = override.Indent.Increase
	}
	if override.Indent.Decrease != "" {
		result.Indent.Decrease = override.Indent.Decrease
	}
	if override.Indent.IndentNextLine != "" {
		result.Indent.IndentNextLine = override.Indent.IndentNextLine
	}
	if override.Indent.Unindented != "" {
		result.Indent.Unindented = override.Indent.Unindented
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
