// Package language holds per-language indentation definitions: comment
// and string markers, bracket pairs, and the regular expression rules the
// re-indent engine evaluates. Definitions are data; there are no
// per-language code paths. Builtins register themselves at init and user
// configuration can override or extend them.
package language

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrBadPattern is returned when an indentation pattern fails to compile.
var ErrBadPattern = errors.New("invalid indentation pattern")

// BracketPair is an open/close delimiter pair used to derive indentation
// rules for languages that define none explicitly.
type BracketPair struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// IndentPatterns are the raw rule sources, RE2 syntax. Empty fields mean
// the language does not use that signal.
type IndentPatterns struct {
	// Increase marks lines after which nesting goes one level deeper.
	Increase string `yaml:"increase,omitempty"`

	// Decrease marks lines that themselves sit one level shallower.
	Decrease string `yaml:"decrease,omitempty"`

	// IndentNextLine marks lines granting exactly one following line a
	// temporary extra level.
	IndentNextLine string `yaml:"indent_next_line,omitempty"`

	// Unindented marks lines pinned to column zero regardless of nesting.
	Unindented string `yaml:"unindented,omitempty"`
}

// Empty reports whether no pattern is set.
func (p IndentPatterns) Empty() bool {
	return p.Increase == "" && p.Decrease == "" && p.IndentNextLine == "" && p.Unindented == ""
}

// Config is the serializable definition of one language.
type Config struct {
	// ID is the canonical lowercase identifier (e.g. "typescript").
	ID string `yaml:"id"`

	// Name is the display name (e.g. "TypeScript").
	Name string `yaml:"name,omitempty"`

	// Aliases are alternate lookup keys (e.g. "ts").
	Aliases []string `yaml:"aliases,omitempty"`

	// Extensions are file extensions including the dot (e.g. ".ts").
	Extensions []string `yaml:"extensions,omitempty"`

	// LineComment starts a comment running to end of line.
	LineComment string `yaml:"line_comment,omitempty"`

	// BlockCommentStart and BlockCommentEnd delimit comments that may
	// span lines. Both or neither must be set.
	BlockCommentStart string `yaml:"block_comment_start,omitempty"`
	BlockCommentEnd   string `yaml:"block_comment_end,omitempty"`

	// BlockCommentAtLineStart restricts the start marker to column one
	// (Ruby's =begin).
	BlockCommentAtLineStart bool `yaml:"block_comment_at_line_start,omitempty"`

	// Quotes are single-line string delimiters. Backslash escapes the
	// delimiter inside the string.
	Quotes []string `yaml:"quotes,omitempty"`

	// MultilineStrings are fence tokens for strings that may span lines
	// (backtick, triple quotes). Checked before Quotes.
	MultilineStrings []string `yaml:"multiline_strings,omitempty"`

	// Brackets are used to derive indentation rules when Indent is empty.
	Brackets []BracketPair `yaml:"brackets,omitempty"`

	// Indent holds the rule patterns. When empty and Brackets is not,
	// rules are derived from the bracket pairs at compile time.
	Indent IndentPatterns `yaml:"indent,omitempty"`
}

// Language is a compiled, immutable language definition. Compile once,
// share freely across goroutines.
type Language struct {
	cfg Config

	increase   *regexp.Regexp
	decrease   *regexp.Regexp
	indentNext *regexp.Regexp
	unindented *regexp.Regexp
}

// Compile validates cfg and compiles its patterns. Languages without
// explicit patterns but with bracket pairs get derived rules; languages
// with neither compile fine and report HasIndentRules false.
func Compile(cfg Config) (*Language, error) {
	if cfg.ID == "" {
		return nil, errors.New("language id is required")
	}
	if (cfg.BlockCommentStart == "") != (cfg.BlockCommentEnd == "") {
		return nil, fmt.Errorf("language %s: block comment markers must be paired", cfg.ID)
	}

	patterns := cfg.Indent
	if patterns.Empty() && len(cfg.Brackets) > 0 {
		patterns = DeriveIndentPatterns(cfg.Brackets)
	}

	lang := &Language{cfg: cfg}
	var err error
	if lang.increase, err = compilePattern(cfg.ID, "increase", patterns.Increase); err != nil {
		return nil, err
	}
	if lang.decrease, err = compilePattern(cfg.ID, "decrease", patterns.Decrease); err != nil {
		return nil, err
	}
	if lang.indentNext, err = compilePattern(cfg.ID, "indent_next_line", patterns.IndentNextLine); err != nil {
		return nil, err
	}
	if lang.unindented, err = compilePattern(cfg.ID, "unindented", patterns.Unindented); err != nil {
		return nil, err
	}
	return lang, nil
}

// MustCompile is Compile for builtin definitions, panicking on error.
func MustCompile(cfg Config) *Language {
	lang, err := Compile(cfg)
	if err != nil {
		panic(err)
	}
	return lang
}

func compilePattern(id, field, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrBadPattern, id, field, err)
	}
	return re, nil
}

// ID returns the canonical identifier.
func (l *Language) ID() string { return l.cfg.ID }

// Name returns the display name, falling back to the ID.
func (l *Language) Name() string {
	if l.cfg.Name != "" {
		return l.cfg.Name
	}
	return l.cfg.ID
}

// Aliases returns the alternate lookup keys.
func (l *Language) Aliases() []string { return l.cfg.Aliases }

// Extensions returns the file extensions claimed by the language.
func (l *Language) Extensions() []string { return l.cfg.Extensions }

// Config returns a copy of the definition the language was compiled from.
func (l *Language) Config() Config { return l.cfg }

// HasIndentRules reports whether the language can drive re-indentation.
// Without at least an increase or decrease rule the engine passes input
// through untouched.
func (l *Language) HasIndentRules() bool {
	return l.increase != nil || l.decrease != nil
}

// IndentSignals is the outcome of rule evaluation for one line.
type IndentSignals struct {
	Increase       bool
	Decrease       bool
	IndentNextLine bool
	Unindented     bool
}

// ClassifyIndent evaluates the increase, decrease, and indent-next-line
// rules against rule text (comment and string spans already masked,
// trailing whitespace trimmed). The unindented rule is evaluated against
// raw text separately; see MatchesUnindented.
func (l *Language) ClassifyIndent(ruleText string) IndentSignals {
	var s IndentSignals
	if l.decrease != nil && l.decrease.MatchString(ruleText) {
		s.Decrease = true
	}
	if l.increase != nil && l.increase.MatchString(ruleText) {
		s.Increase = true
	}
	if l.indentNext != nil && l.indentNext.MatchString(ruleText) {
		s.IndentNextLine = true
	}
	return s
}

// MatchesUnindented evaluates the unindented rule against the raw line
// text. Raw text is used because the markers these rules target (Ruby's
// =begin) are often comment delimiters the mask would blank out.
func (l *Language) MatchesUnindented(rawText string) bool {
	return l.unindented != nil && l.unindented.MatchString(rawText)
}
