package configloader

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/language"
)

// MigrationResult contains the result of converting an EditorConfig file.
type MigrationResult struct {
	// Config is the converted retab configuration.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the path to the original .editorconfig file.
	SourcePath string
}

// ecSection is one parsed section of an EditorConfig file. The empty
// pattern holds the preamble, where root = true lives.
type ecSection struct {
	pattern string
	keys    map[string]string
}

// mappedKeys are EditorConfig keys with a retab equivalent.
//
//nolint:gochecknoglobals // Read-only lookup table.
var mappedKeys = map[string]bool{
	"indent_style":             true,
	"indent_size":              true,
	"tab_width":                true,
	"insert_final_newline":     true,
	"trim_trailing_whitespace": true,
}

// ConvertEditorConfig converts a .editorconfig file to retab format.
// Returns the converted config, any warnings, and an error if the file
// could not be read.
func ConvertEditorConfig(path string) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: path,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	sections := parseEditorConfig(string(content), result)

	cfg := config.NewConfig()

	for _, sec := range sections {
		switch sec.pattern {
		case "":
			processPreamble(sec, result)
		case "*":
			processGlobalSection(cfg, sec, result)
		default:
			processPatternSection(cfg, sec, result)
		}
	}

	result.Config = cfg
	return result, nil
}

// parseEditorConfig splits INI-style content into sections of
// key = value pairs. Keys are case-insensitive; section patterns are
// kept verbatim. Comment lines start with # or ;.
func parseEditorConfig(content string, result *MigrationResult) []ecSection {
	sections := []ecSection{{keys: make(map[string]string)}}
	cur := 0

	for lineNo, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, ecSection{
				pattern: strings.TrimSpace(line[1 : len(line)-1]),
				keys:    make(map[string]string),
			})
			cur = len(sections) - 1
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: not a section header or key = value pair; skipping", lineNo+1))
			continue
		}
		sections[cur].keys[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	return sections
}

// processPreamble handles keys before the first section. EditorConfig
// defines only root there, and it has no retab equivalent.
func processPreamble(sec ecSection, result *MigrationResult) {
	for _, key := range slices.Sorted(maps.Keys(sec.keys)) {
		if key == "root" {
			continue
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("key %q appears before any section; skipping", key))
	}
}

// processGlobalSection maps the [*] section onto top-level settings.
func processGlobalSection(cfg *config.Config, sec ecSection, result *MigrationResult) {
	if value, ok := sec.keys["indent_style"]; ok {
		style, warn := convertStyle(value)
		if warn != "" {
			result.Warnings = append(result.Warnings, "section [*]: "+warn)
		} else {
			cfg.Style = style
		}
	}

	if size, ok := resolveIndentSize(sec, result); ok {
		cfg.TabSize = size
	}

	if value, ok := sec.keys["insert_final_newline"]; ok {
		enabled, warn := convertBool("insert_final_newline", value)
		if warn != "" {
			result.Warnings = append(result.Warnings, "section [*]: "+warn)
		} else {
			cfg.FinalNewline = enabled
		}
	}

	if value, ok := sec.keys["trim_trailing_whitespace"]; ok {
		enabled, warn := convertBool("trim_trailing_whitespace", value)
		if warn != "" {
			result.Warnings = append(result.Warnings, "section [*]: "+warn)
		} else {
			cfg.TrimTrailing = enabled
		}
	}

	warnUnmappedKeys(sec, result)
}

// processPatternSection maps a per-pattern section onto per-language
// overrides when the pattern resolves to known languages.
func processPatternSection(cfg *config.Config, sec ecSection, result *MigrationResult) {
	ids := sectionLanguages(sec.pattern)
	if len(ids) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("section [%s]: no known language matches the pattern; skipping", sec.pattern))
		return
	}

	var style string
	if value, ok := sec.keys["indent_style"]; ok {
		converted, warn := convertStyle(value)
		if warn != "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("section [%s]: %s", sec.pattern, warn))
		} else {
			style = string(converted)
		}
	}

	size, hasSize := resolveIndentSize(sec, result)

	// Final-newline and trailing-whitespace handling are run-level
	// settings; a per-pattern value cannot be represented.
	for _, key := range []string{"insert_final_newline", "trim_trailing_whitespace"} {
		if _, ok := sec.keys[key]; ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("section [%s]: %s applies to the whole run; set it in the [*] section", sec.pattern, key))
		}
	}

	warnUnmappedKeys(sec, result)

	if style == "" && !hasSize {
		return
	}

	if cfg.Languages == nil {
		cfg.Languages = make(map[string]language.Override)
	}
	for _, id := range ids {
		ov := cfg.Languages[id]
		if style != "" {
			ov.Style = style
		}
		if hasSize {
			ov.TabSize = size
		}
		cfg.Languages[id] = ov
	}
}

// convertStyle maps an indent_style value onto a config style.
func convertStyle(value string) (config.Style, string) {
	switch strings.ToLower(value) {
	case "tab":
		return config.StyleTab, ""
	case "space":
		return config.StyleSpace, ""
	default:
		return "", fmt.Sprintf("unsupported indent_style %q; skipping", value)
	}
}

// convertBool parses an EditorConfig boolean value.
func convertBool(key, value string) (bool, string) {
	enabled, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return false, fmt.Sprintf("unsupported %s value %q; skipping", key, value)
	}
	return enabled, ""
}

// resolveIndentSize resolves the effective width of a section from
// indent_size and tab_width. An indent_size of "tab" defers to
// tab_width, matching EditorConfig semantics.
func resolveIndentSize(sec ecSection, result *MigrationResult) (int, bool) {
	value, ok := sec.keys["indent_size"]
	if ok && strings.EqualFold(value, "tab") {
		value, ok = sec.keys["tab_width"]
	} else if !ok {
		value, ok = sec.keys["tab_width"]
	}
	if !ok {
		return 0, false
	}

	size, err := strconv.Atoi(value)
	if err != nil || indent.ValidateTabSize(size) != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("section [%s]: unsupported indent size %q; skipping", sec.pattern, value))
		return 0, false
	}
	return size, true
}

// warnUnmappedKeys reports EditorConfig keys with no retab equivalent
// (charset, end_of_line, max_line_length and friends).
func warnUnmappedKeys(sec ecSection, result *MigrationResult) {
	for _, key := range slices.Sorted(maps.Keys(sec.keys)) {
		if mappedKeys[key] {
			continue
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("section [%s]: no retab equivalent for %q; skipping", sec.pattern, key))
	}
}

// sectionLanguages resolves an EditorConfig section pattern to registry
// language ids. Simple extension patterns (*.py, *.{js,ts}) and exact
// filenames resolve; anything more elaborate does not.
func sectionLanguages(pattern string) []string {
	registry := language.DefaultRegistry

	var ids []string
	seen := make(map[string]bool)

	for _, part := range expandBraces(pattern) {
		id := ""
		switch {
		case strings.HasPrefix(part, "*.") && !strings.ContainsAny(part[2:], "*?[]{}/"):
			if lang, ok := registry.LookupExtension(part[1:]); ok {
				id = lang.ID()
			}
		case !strings.ContainsAny(part, "*?[]{}/"):
			if lang, ok := registry.Lookup(strings.ToLower(part)); ok {
				id = lang.ID()
			}
		}
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids
}

// expandBraces expands {a,b} alternations in a section pattern.
func expandBraces(pattern string) []string {
	open := strings.Index(pattern, "{")
	if open < 0 {
		return []string{pattern}
	}
	end := strings.Index(pattern[open:], "}")
	if end < 0 {
		return []string{pattern}
	}
	end += open

	prefix, inner, suffix := pattern[:open], pattern[open+1:end], pattern[end+1:]
	var out []string
	for _, alt := range strings.Split(inner, ",") {
		out = append(out, expandBraces(prefix+strings.TrimSpace(alt)+suffix)...)
	}
	return out
}

// GenerateMigrationHeader returns a header comment for migrated configs.
func GenerateMigrationHeader(sourcePath string) string {
	return fmt.Sprintf(`# retab configuration
# Migrated from: %s
# See: https://github.com/yaklabco/retab
`, filepath.Base(sourcePath))
}

// CanMigrate returns true if the file looks like an EditorConfig file.
func CanMigrate(path string) bool {
	return filepath.Base(path) == editorConfigFileName
}

// DetectConfigFormat determines the format of a config file.
func DetectConfigFormat(path string) string {
	if filepath.Base(path) == editorConfigFileName {
		return "editorconfig"
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "unknown"
	}
}
