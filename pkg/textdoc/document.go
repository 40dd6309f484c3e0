package textdoc

import "sort"

// LineSource is the minimal read surface the engines need. Hosts with
// their own buffer representation implement this instead of copying
// content into a Document.
type LineSource interface {
	// LineCount returns the number of lines.
	LineCount() int

	// Line returns the 1-based line's text without its line terminator.
	// Out-of-range lines return the empty string.
	Line(n int) string
}

// Document is an immutable snapshot of text content with a line index.
// It handles both LF and CRLF line endings.
type Document struct {
	// Path is the origin of the content (may be empty for in-memory text).
	Path string

	content []byte
	lines   []lineInfo
}

// lineInfo records the byte extent of one line.
type lineInfo struct {
	// start is the byte index of the first character of the line.
	start int

	// newlineStart is the byte index where the line terminator begins.
	// Equals end for lines without one (the last line).
	newlineStart int

	// end is the byte index just past the line terminator.
	end int
}

// NewDocument builds a Document from raw content.
func NewDocument(path string, content []byte) *Document {
	return &Document{
		Path:    path,
		content: content,
		lines:   indexLines(content),
	}
}

// indexLines computes line extents. Empty content still has one line.
func indexLines(content []byte) []lineInfo {
	var lines []lineInfo
	lineStart := 0

	for idx, b := range content {
		if b != '\n' {
			continue
		}
		nlStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			nlStart = idx - 1
		}
		lines = append(lines, lineInfo{
			start:        lineStart,
			newlineStart: nlStart,
			end:          idx + 1,
		})
		lineStart = idx + 1
	}

	// Last line, with or without trailing newline. An empty document is a
	// single empty line.
	lines = append(lines, lineInfo{
		start:        lineStart,
		newlineStart: len(content),
		end:          len(content),
	})

	return lines
}

// Content returns the raw bytes backing the document.
func (d *Document) Content() []byte {
	return d.content
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the 1-based line's text without its terminator, or the
// empty string when n is out of range.
func (d *Document) Line(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}
	li := d.lines[n-1]
	return string(d.content[li.start:li.newlineStart])
}

// lineLen returns the byte length of the 1-based line excluding its
// terminator.
func (d *Document) lineLen(n int) int {
	li := d.lines[n-1]
	return li.newlineStart - li.start
}

// ValidPosition reports whether p addresses a real location: an existing
// line, and a column between 1 and the line length plus one.
func (d *Document) ValidPosition(p Position) bool {
	if p.Line < 1 || p.Line > len(d.lines) {
		return false
	}
	return p.Column >= 1 && p.Column <= d.lineLen(p.Line)+1
}

// Offset converts a position to a byte offset into the content. The
// second return is false when the position is invalid.
func (d *Document) Offset(p Position) (int, bool) {
	if !d.ValidPosition(p) {
		return 0, false
	}
	return d.lines[p.Line-1].start + p.Column - 1, true
}

// PositionAt converts a byte offset to a position. Offsets inside a line
// terminator map to the column just past the line's last character;
// offsets past the content map to the end of the last line.
func (d *Document) PositionAt(offset int) Position {
	if offset <= 0 || len(d.lines) == 0 {
		return Position{Line: 1, Column: 1}
	}
	if offset >= len(d.content) {
		last := len(d.lines)
		return Position{Line: last, Column: d.lineLen(last) + 1}
	}

	idx := sort.Search(len(d.lines), func(i int) bool {
		return d.lines[i].end > offset
	})
	li := d.lines[idx]

	col := offset - li.start + 1
	if max := li.newlineStart - li.start + 1; col > max {
		col = max
	}
	return Position{Line: idx + 1, Column: col}
}
