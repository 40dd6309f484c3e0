package language

import (
	"regexp"
	"strings"
)

// DeriveIndentPatterns builds indentation rules from bracket pairs:
// a line ending with an unclosed open bracket increases, a line starting
// with a close bracket decreases. Good enough for pure data languages
// (JSON, CSS) that need no keyword rules.
func DeriveIndentPatterns(pairs []BracketPair) IndentPatterns {
	if len(pairs) == 0 {
		return IndentPatterns{}
	}

	var openAlts []string
	var closeChars []string
	for _, p := range pairs {
		if p.Open == "" || p.Close == "" {
			continue
		}
		// Open bracket with no matching close later on the line.
		openAlts = append(openAlts,
			regexp.QuoteMeta(p.Open)+"[^"+charClassEscape(p.Close)+"]*")
		closeChars = append(closeChars, charClassEscape(p.Close))
	}
	if len(openAlts) == 0 {
		return IndentPatterns{}
	}

	return IndentPatterns{
		Increase: "(" + strings.Join(openAlts, "|") + ")$",
		Decrease: "^\\s*[" + strings.Join(closeChars, "") + "]",
	}
}

// charClassEscape escapes a delimiter for use inside a character class.
func charClassEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ']', '\\', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
