package language

import (
	"fmt"
	"slices"
)

// Override adjusts a builtin language or defines a new one from user
// configuration. Scalar fields overwrite when non-empty; slice fields
// replace the existing values when set at all.
//
// Style and TabSize are formatting policy, not syntax: the registry
// ignores them, and the pipeline reads them when resolving the target
// style for a file of this language.
type Override struct {
	Name              string         `yaml:"name,omitempty"`
	Style             string         `yaml:"style,omitempty"`
	TabSize           int            `yaml:"tab_size,omitempty"`
	Aliases           []string       `yaml:"aliases,omitempty"`
	Extensions        []string       `yaml:"extensions,omitempty"`
	LineComment       string         `yaml:"line_comment,omitempty"`
	BlockCommentStart string         `yaml:"block_comment_start,omitempty"`
	BlockCommentEnd   string         `yaml:"block_comment_end,omitempty"`
	Quotes            []string       `yaml:"quotes,omitempty"`
	MultilineStrings  []string       `yaml:"multiline_strings,omitempty"`
	Brackets          []BracketPair  `yaml:"brackets,omitempty"`
	Indent            IndentPatterns `yaml:"indent,omitempty"`
}

// ApplyOverride merges ov onto the language registered under id, or
// defines a new language when none exists, and re-registers the result.
// A pattern that fails to compile rejects the whole override and leaves
// the registry untouched.
func ApplyOverride(reg *Registry, id string, ov Override) error {
	cfg := Config{ID: id}
	if existing, ok := reg.Lookup(id); ok {
		cfg = existing.Config()
	}

	if ov.Name != "" {
		cfg.Name = ov.Name
	}
	if ov.Aliases != nil {
		cfg.Aliases = ov.Aliases
	}
	if ov.Extensions != nil {
		cfg.Extensions = ov.Extensions
	}
	if ov.LineComment != "" {
		cfg.LineComment = ov.LineComment
	}
	if ov.BlockCommentStart != "" {
		cfg.BlockCommentStart = ov.BlockCommentStart
	}
	if ov.BlockCommentEnd != "" {
		cfg.BlockCommentEnd = ov.BlockCommentEnd
	}
	if ov.Quotes != nil {
		cfg.Quotes = ov.Quotes
	}
	if ov.MultilineStrings != nil {
		cfg.MultilineStrings = ov.MultilineStrings
	}
	if ov.Brackets != nil {
		cfg.Brackets = ov.Brackets
	}
	if ov.Indent.Increase != "" {
		cfg.Indent.Increase = ov.Indent.Increase
	}
	if ov.Indent.Decrease != "" {
		cfg.Indent.Decrease = ov.Indent.Decrease
	}
	if ov.Indent.IndentNextLine != "" {
		cfg.Indent.IndentNextLine = ov.Indent.IndentNextLine
	}
	if ov.Indent.Unindented != "" {
		cfg.Indent.Unindented = ov.Indent.Unindented
	}

	lang, err := Compile(cfg)
	if err != nil {
		return fmt.Errorf("language override %s: %w", id, err)
	}
	reg.Register(lang)
	return nil
}

// ApplyOverrides applies a set of overrides in sorted key order so
// repeated loads produce identical registries.
func ApplyOverrides(reg *Registry, overrides map[string]Override) error {
	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if err := ApplyOverride(reg, id, overrides[id]); err != nil {
			return err
		}
	}
	return nil
}
