// Package textdoc provides the position, range, and edit model shared by
// the conversion and re-indentation engines. Positions are 1-based and
// columns count bytes. Edits are expressed against the original document
// and applied as a single atomic batch.
package textdoc

// Position is a location in a document. Line and Column are 1-based;
// Column is a byte offset into the line plus one, so column 1 sits before
// the first byte and column len(line)+1 sits after the last.
type Position struct {
	Line   int
	Column int
}

// Compare returns -1, 0, or 1 depending on whether p is before, equal to,
// or after q in document order.
func (p Position) Compare(q Position) int {
	if p.Line != q.Line {
		if p.Line < q.Line {
			return -1
		}
		return 1
	}
	if p.Column != q.Column {
		if p.Column < q.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before reports whether p precedes q in document order.
func (p Position) Before(q Position) bool {
	return p.Compare(q) < 0
}

// Range is a pair of positions with Start <= End in document order.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a range from two positions, swapping them if given in
// reverse order.
func NewRange(a, b Position) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// IsEmpty reports whether the range covers no content.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether p falls within the range (start inclusive,
// end exclusive; an empty range contains nothing).
func (r Range) Contains(p Position) bool {
	return r.Start.Compare(p) <= 0 && p.Before(r.End)
}

// Lines returns the 1-based first and last line touched by the range.
// A range ending at column 1 of a line does not touch that line unless
// the range is empty.
func (r Range) Lines() (first, last int) {
	first = r.Start.Line
	last = r.End.Line
	if last > first && r.End.Column == 1 {
		last--
	}
	return first, last
}

// Selection is a range with an orientation: the anchor is the fixed end
// and the active end is the one that moves. Anchor and Active may be in
// either document order.
type Selection struct {
	Anchor Position
	Active Position
}

// IsReversed reports whether the active end precedes the anchor.
func (s Selection) IsReversed() bool {
	return s.Active.Before(s.Anchor)
}

// Range returns the selection normalized to document order.
func (s Selection) Range() Range {
	return NewRange(s.Anchor, s.Active)
}

// Edit replaces the content covered by Range with NewText. The range is
// interpreted in the coordinates of the document the edit was computed
// against, regardless of other edits in the same batch.
type Edit struct {
	Range   Range
	NewText string
}
