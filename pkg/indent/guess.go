package indent

import "bytes"

// maxGuessLines bounds how much of a file the guesser reads. Indentation
// settles long before this in any real file.
const maxGuessLines = 10000

// tabSizeCandidates are the sizes the guesser votes between, most common
// first so ties resolve toward convention.
var tabSizeCandidates = [...]int{4, 2, 8, 3, 6}

// Guess is the inferred indentation of a piece of content, plus the raw
// counts the inference was drawn from.
type Guess struct {
	Style   Style
	TabSize int

	// TabLines and SpaceLines count indented lines by the first byte of
	// their span. MixedLines counts spans containing both characters.
	TabLines   int
	SpaceLines int
	MixedLines int

	// Indented counts all lines beginning with whitespace.
	Indented int

	// Confident is false when the content has too little indentation to
	// support a verdict; callers should fall back to configuration.
	Confident bool
}

// GuessIndentation infers the dominant indentation style and, for
// space-indented content, the likely tab size. The style verdict follows
// the majority of indented lines; the size verdict follows the most
// common indentation shift between consecutive indented lines.
func GuessIndentation(content []byte) Guess {
	g := Guess{Style: Tabs, TabSize: DefaultTabSize}

	votes := make(map[int]int, len(tabSizeCandidates))
	prevSpaces := 0
	seen := 0

	for line := range bytes.Lines(content) {
		seen++
		if seen > maxGuessLines {
			break
		}

		span := line[:leadingSpanBytes(line)]
		if len(span) == 0 {
			continue
		}
		if len(span) == len(line) || isLineBreak(line[len(span):]) {
			// Whitespace-only lines carry no signal.
			continue
		}

		g.Indented++
		hasTab := bytes.IndexByte(span, '\t') >= 0
		hasSpace := bytes.IndexByte(span, ' ') >= 0
		if hasTab && hasSpace {
			g.MixedLines++
		}
		if span[0] == '\t' {
			g.TabLines++
			continue
		}
		g.SpaceLines++

		// Vote on the shift between consecutive space-indented lines.
		spaces := len(span) - bytes.Count(span, []byte{'\t'})
		if diff := abs(spaces - prevSpaces); diff > 0 {
			for _, c := range tabSizeCandidates {
				if diff%c == 0 && diff <= c*2 {
					votes[c]++
					break
				}
			}
		}
		prevSpaces = spaces
	}

	if g.Indented == 0 {
		return g
	}

	g.Confident = true
	if g.SpaceLines > g.TabLines {
		g.Style = Spaces
	}

	best := 0
	for _, c := range tabSizeCandidates {
		if votes[c] > best {
			best = votes[c]
			g.TabSize = c
		}
	}
	return g
}

// leadingSpanBytes is LeadingSpan for a byte slice.
func leadingSpanBytes(line []byte) int {
	for i, b := range line {
		if b != ' ' && b != '\t' {
			return i
		}
	}
	return len(line)
}

// isLineBreak reports whether rest is only a line terminator.
func isLineBreak(rest []byte) bool {
	switch string(rest) {
	case "\n", "\r\n", "":
		return true
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
