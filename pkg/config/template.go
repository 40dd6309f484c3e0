package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/retab/pkg/language"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all settings plus the builtin language definitions.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return generateJSONTemplate()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate()
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`# retab configuration
# See: https://github.com/yaklabco/retab

# Indentation style: tab or space
style: tab

# Columns per indentation level (0 = guess per file)
tab_size: 4

# Ensure files end with exactly one newline
# final_newline: false

# Strip trailing whitespace from rewritten lines
# trim_trailing: false

# Number of parallel workers (0 = auto)
# jobs: 0

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Per-language overrides (keyed by language id)
# languages:
#   python:
#     style: space
#     tab_size: 4
#     extensions: [".py", ".pyi", ".bzl"]
#   mylang:
#     extensions: [".ml2"]
#     line_comment: "#"
#     indent:
#       increase: '(\{|\[|\()\s*$'
#       decrease: '^\s*(\}|\]|\))'
`)

	return buf.Bytes(), nil
}

// generateFullTemplate creates a full template with every setting spelled
// out and the builtin language definitions documented.
func generateFullTemplate() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`# retab configuration - Full Template
# See: https://github.com/yaklabco/retab
#
# This template includes all available settings with their defaults and
# the builtin language definitions for reference. Uncomment and modify
# settings as needed.

# Indentation style: tab or space
style: tab

# Columns per indentation level (0 = guess per file)
tab_size: 4

# Ensure files end with exactly one newline
final_newline: false

# Strip trailing whitespace from rewritten lines
trim_trailing: false

# Apply changes to disk (default: check only)
write: false

# Print unified diffs instead of writing
diff: false

# Treat warnings (skipped files, detection failures) as errors
strict: false

# Number of parallel workers (0 = auto based on CPU cores)
jobs: 0

# Output format: text, json, diff, or summary
format: text

# Backup configuration for written files
backups:
  enabled: true
  mode: sidecar

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

# Per-language overrides. Keys are language ids; builtin ids are listed
# below. A key that is not builtin defines a new language. Each section
# may pin style and tab_size for that language in addition to adjusting
# its syntax (extensions, comment markers, indent patterns).
languages:
`)

	for _, lang := range language.DefaultRegistry.Languages() {
		writeLanguageBlock(&buf, lang)
	}

	return buf.Bytes(), nil
}

// writeLanguageBlock renders one builtin language as a commented YAML block.
func writeLanguageBlock(buf *bytes.Buffer, lang *language.Language) {
	cfg := lang.Config()

	fmt.Fprintf(buf, "\n  # %s", lang.Name())
	if len(cfg.Aliases) > 0 {
		fmt.Fprintf(buf, " (aliases: %s)", strings.Join(cfg.Aliases, ", "))
	}
	buf.WriteString("\n")

	fmt.Fprintf(buf, "  # %s:\n", cfg.ID)
	if len(cfg.Extensions) > 0 {
		fmt.Fprintf(buf, "  #   extensions: [%s]\n", quoteJoin(cfg.Extensions))
	}
	if cfg.LineComment != "" {
		fmt.Fprintf(buf, "  #   line_comment: %q\n", cfg.LineComment)
	}
	if cfg.BlockCommentStart != "" {
		fmt.Fprintf(buf, "  #   block_comment_start: %q\n", cfg.BlockCommentStart)
		fmt.Fprintf(buf, "  #   block_comment_end: %q\n", cfg.BlockCommentEnd)
	}
	if len(cfg.MultilineStrings) > 0 {
		fmt.Fprintf(buf, "  #   multiline_strings: [%s]\n", quoteJoin(cfg.MultilineStrings))
	}
	if !cfg.Indent.Empty() {
		buf.WriteString("  #   indent:\n")
		writePattern(buf, "increase", cfg.Indent.Increase)
		writePattern(buf, "decrease", cfg.Indent.Decrease)
		writePattern(buf, "indent_next_line", cfg.Indent.IndentNextLine)
		writePattern(buf, "unindented", cfg.Indent.Unindented)
	} else if len(cfg.Brackets) > 0 {
		buf.WriteString("  #   # indent rules derived from bracket pairs\n")
	}
}

func writePattern(buf *bytes.Buffer, field, pattern string) {
	if pattern == "" {
		return
	}
	fmt.Fprintf(buf, "  #     %s: '%s'\n", field, strings.ReplaceAll(pattern, "'", "''"))
}

// quoteJoin renders a string slice as a comma-separated list of quoted items.
func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}

// generateJSONTemplate renders the default configuration as JSON.
func generateJSONTemplate() ([]byte, error) {
	cfg := map[string]any{
		"style":         "tab",
		"tab_size":      4,
		"final_newline": false,
		"trim_trailing": false,
		"write":         false,
		"diff":          false,
		"strict":        false,
		"jobs":          0,
		"format":        "text",
		"backups": map[string]any{
			"enabled": true,
			"mode":    "sidecar",
		},
		"ignore":    []string{"vendor/**", "node_modules/**", ".git/**"},
		"languages": map[string]any{},
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# retab configuration
# See: https://github.com/yaklabco/retab`
}
