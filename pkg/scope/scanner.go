package scope

import (
	"sort"
	"strings"

	"github.com/yaklabco/retab/pkg/language"
)

// scanMode is the multi-line state the scanner carries between lines.
type scanMode int

const (
	modeNormal scanMode = iota
	modeBlockComment
	modeString
)

// scanner is the fallback when no host tokenizer is available: a marker
// scan over the language's comment and string delimiters. It understands
// line comments, block comment pairs, single-line quoted strings with
// backslash escapes, and symmetric multi-line string fences.
type scanner struct {
	lineComment      string
	blockStart       string
	blockEnd         string
	blockAtLineStart bool
	quotes           []string
	fences           []string

	mode  scanMode
	fence string // the fence that opened the current multi-line string
}

func newScanner(cfg language.Config) *scanner {
	s := &scanner{
		lineComment:      cfg.LineComment,
		blockStart:       cfg.BlockCommentStart,
		blockEnd:         cfg.BlockCommentEnd,
		blockAtLineStart: cfg.BlockCommentAtLineStart,
		quotes:           cfg.Quotes,
		fences:           append([]string(nil), cfg.MultilineStrings...),
	}
	// Longest fence first so """ wins over ".
	sort.Slice(s.fences, func(i, j int) bool {
		return len(s.fences[i]) > len(s.fences[j])
	})
	return s
}

// scanLine masks the line's comment and string bytes with spaces and
// advances the carry state. opened reports whether the line began inside
// a multi-line construct.
func (s *scanner) scanLine(text string) (opened bool, masked string) {
	out := []byte(text)
	i := 0

	switch s.mode {
	case modeBlockComment:
		opened = true
		i = s.closeRun(out, 0, s.blockEnd, modeBlockComment)
	case modeString:
		opened = true
		i = s.closeRun(out, 0, s.fence, modeString)
	}
	if i < 0 {
		return opened, string(out)
	}

	for i < len(out) {
		rest := text[i:]

		if s.blockStart != "" && strings.HasPrefix(rest, s.blockStart) &&
			(!s.blockAtLineStart || i == 0) {
			end := i + len(s.blockStart)
			blank(out, i, end)
			i = s.closeRun(out, end, s.blockEnd, modeBlockComment)
			if i < 0 {
				return opened, string(out)
			}
			continue
		}

		if f := s.matchFence(rest); f != "" {
			end := i + len(f)
			blank(out, i, end)
			s.fence = f
			i = s.closeRun(out, end, f, modeString)
			if i < 0 {
				return opened, string(out)
			}
			continue
		}

		if q := s.matchQuote(rest); q != "" {
			end := i + len(q)
			blank(out, i, end)
			i = s.closeQuote(out, end, q)
			continue
		}

		if s.lineComment != "" && strings.HasPrefix(rest, s.lineComment) {
			blank(out, i, len(out))
			break
		}

		i++
	}

	return opened, string(out)
}

// closeRun blanks from start until just past the close marker. When the
// marker is absent the rest of the line is blanked, the carry state is
// set to mode, and -1 is returned.
func (s *scanner) closeRun(out []byte, start int, closer string, mode scanMode) int {
	idx := strings.Index(string(out[start:]), closer)
	if idx < 0 {
		blank(out, start, len(out))
		s.mode = mode
		return -1
	}
	end := start + idx + len(closer)
	blank(out, start, end)
	s.mode = modeNormal
	return end
}

// closeQuote blanks a single-line string from start to its unescaped
// closing quote. Unterminated strings end at the line break without
// carrying state forward.
func (s *scanner) closeQuote(out []byte, start int, quote string) int {
	i := start
	for i < len(out) {
		if out[i] == '\\' {
			i += 2
			continue
		}
		if strings.HasPrefix(string(out[i:]), quote) {
			end := i + len(quote)
			blank(out, start, end)
			return end
		}
		i++
	}
	blank(out, start, len(out))
	return len(out)
}

func (s *scanner) matchFence(rest string) string {
	for _, f := range s.fences {
		if strings.HasPrefix(rest, f) {
			return f
		}
	}
	return ""
}

func (s *scanner) matchQuote(rest string) string {
	for _, q := range s.quotes {
		if strings.HasPrefix(rest, q) {
			// A quote that is also a fence prefix was handled above.
			return q
		}
	}
	return ""
}

func blank(out []byte, from, to int) {
	for i := from; i < to; i++ {
		out[i] = ' '
	}
}
