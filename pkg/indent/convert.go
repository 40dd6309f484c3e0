package indent

import "strings"

// ConvertLine re-encodes the line's leading whitespace to the target
// style and returns the new line with the old and new span lengths in
// bytes. Content past the first non-whitespace byte is never touched;
// lines that are already in the target encoding come back unchanged with
// equal span lengths.
func ConvertLine(line string, style Style, tabSize int) (string, int, int) {
	if tabSize < MinTabSize {
		tabSize = DefaultTabSize
	}

	oldLen := LeadingSpan(line)
	if oldLen == 0 {
		return line, 0, 0
	}

	span := line[:oldLen]
	var newSpan string
	if style == Spaces {
		newSpan = tabsToSpaces(span, tabSize)
	} else {
		newSpan = spacesToTabs(span, tabSize)
	}

	if newSpan == span {
		return line, oldLen, oldLen
	}
	return newSpan + line[oldLen:], oldLen, len(newSpan)
}

// tabsToSpaces expands every tab in the span to the distance to the next
// tab stop, tracking the rendered column so stops stay aligned through
// mixed runs.
func tabsToSpaces(span string, tabSize int) string {
	if !strings.ContainsRune(span, '\t') {
		return span
	}

	var b strings.Builder
	b.Grow(len(span) * tabSize)

	col := 0
	for i := 0; i < len(span); i++ {
		if span[i] == '\t' {
			n := tabSize - col%tabSize
			for range n {
				b.WriteByte(' ')
			}
			col += n
		} else {
			b.WriteByte(' ')
			col++
		}
	}
	return b.String()
}

// spacesToTabs greedily groups each run of tabSize consecutive spaces
// into one tab. Leftover spaces shorter than a full group are kept, never
// rounded up or dropped. A tab already in the span flushes the pending
// run and passes through.
func spacesToTabs(span string, tabSize int) string {
	var b strings.Builder
	b.Grow(len(span))

	pending := 0
	flush := func() {
		for ; pending >= tabSize; pending -= tabSize {
			b.WriteByte('\t')
		}
		for ; pending > 0; pending-- {
			b.WriteByte(' ')
		}
	}

	for i := 0; i < len(span); i++ {
		if span[i] == ' ' {
			pending++
			continue
		}
		flush()
		b.WriteByte('\t')
	}
	flush()

	return b.String()
}
