// Package indent provides leading-whitespace math: span detection,
// tab-stop width computation, indent rendering, and conversion between
// tab and space indentation.
package indent

import (
	"errors"
	"fmt"
	"strings"
)

// Style selects the indentation character.
type Style int

const (
	// Tabs indents with one tab per level.
	Tabs Style = iota

	// Spaces indents with tabSize spaces per level.
	Spaces
)

// String returns the style name used in config files and output.
func (s Style) String() string {
	if s == Spaces {
		return "space"
	}
	return "tab"
}

// ErrUnknownStyle is returned by ParseStyle for unrecognized names.
var ErrUnknownStyle = errors.New("unknown indentation style")

// ErrBadTabSize is returned when a tab size falls outside [MinTabSize, MaxTabSize].
var ErrBadTabSize = errors.New("tab size out of range")

// ValidateTabSize checks that n is a usable tab size.
func ValidateTabSize(n int) error {
	if n < MinTabSize || n > MaxTabSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBadTabSize, n, MinTabSize, MaxTabSize)
	}
	return nil
}

// ParseStyle parses a config-file style name. Both singular and plural
// forms are accepted.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tab", "tabs":
		return Tabs, nil
	case "space", "spaces":
		return Spaces, nil
	default:
		return Tabs, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
}

// Tab size bounds accepted by configuration.
const (
	DefaultTabSize = 4
	MinTabSize     = 1
	MaxTabSize     = 16
)

// LeadingSpan returns the byte length of the line's leading run of tabs
// and spaces. A whitespace-only line is one whole span.
func LeadingSpan(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}

// SpanWidth returns the rendered width of a whitespace span under the
// given tab size. A tab advances to the next tab stop; every other byte
// counts one column.
func SpanWidth(span string, tabSize int) int {
	if tabSize < MinTabSize {
		tabSize = DefaultTabSize
	}
	width := 0
	for i := 0; i < len(span); i++ {
		if span[i] == '\t' {
			width += tabSize - width%tabSize
		} else {
			width++
		}
	}
	return width
}

// Depth returns the line's indentation depth in whole units: the rendered
// width of its leading span divided by the tab size, fractions dropped.
func Depth(line string, tabSize int) int {
	if tabSize < MinTabSize {
		tabSize = DefaultTabSize
	}
	return SpanWidth(line[:LeadingSpan(line)], tabSize) / tabSize
}

// Render returns the indentation string for level units: level tabs, or
// level*tabSize spaces. Levels at or below zero render empty.
func Render(level int, style Style, tabSize int) string {
	if level <= 0 {
		return ""
	}
	if style == Tabs {
		return strings.Repeat("\t", level)
	}
	if tabSize < MinTabSize {
		tabSize = DefaultTabSize
	}
	return strings.Repeat(" ", level*tabSize)
}

// RenderColumns returns the indentation string occupying exactly cols
// columns: cols spaces, or under the tab style full tabs plus a space
// remainder for widths that are not a whole number of stops.
func RenderColumns(cols int, style Style, tabSize int) string {
	if cols <= 0 {
		return ""
	}
	if style == Spaces {
		return strings.Repeat(" ", cols)
	}
	if tabSize < MinTabSize {
		tabSize = DefaultTabSize
	}
	return strings.Repeat("\t", cols/tabSize) + strings.Repeat(" ", cols%tabSize)
}

// IsBlank reports whether the line contains only tabs and spaces.
func IsBlank(line string) bool {
	return LeadingSpan(line) == len(line)
}
