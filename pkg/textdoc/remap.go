package textdoc

// SpanChange records that a line's leading-whitespace span was rewritten
// from OldLen to NewLen bytes. Whitespace rewrites never add or remove
// lines, so line numbers are stable and only columns move.
type SpanChange struct {
	Line   int
	OldLen int
	NewLen int
}

// Remapper translates pre-edit positions into post-edit positions for a
// batch of leading-whitespace rewrites.
type Remapper struct {
	changes map[int]SpanChange
}

// NewRemapper builds a Remapper from the batch's span changes. Later
// entries for the same line win; in practice batches carry one change per
// line.
func NewRemapper(changes []SpanChange) *Remapper {
	m := make(map[int]SpanChange, len(changes))
	for _, c := range changes {
		m[c.Line] = c
	}
	return &Remapper{changes: m}
}

// Position maps a pre-edit position to its post-edit location. Positions
// on untouched lines are returned unchanged. On a rewritten line, offsets
// that still land within the new span keep their column; offsets past it
// shift with the content, never landing before the span end.
func (m *Remapper) Position(p Position) Position {
	c, ok := m.changes[p.Line]
	if !ok {
		return p
	}

	offset := p.Column - 1
	if offset <= c.NewLen {
		return p
	}

	col := p.Column + c.NewLen - c.OldLen
	if col < c.NewLen+1 {
		col = c.NewLen + 1
	}
	return Position{Line: p.Line, Column: col}
}

// Range maps both ends of a range and renormalizes their order.
func (m *Remapper) Range(r Range) Range {
	return NewRange(m.Position(r.Start), m.Position(r.End))
}

// Selection maps the anchor and active ends independently, preserving
// which end is the anchor.
func (m *Remapper) Selection(s Selection) Selection {
	return Selection{
		Anchor: m.Position(s.Anchor),
		Active: m.Position(s.Active),
	}
}
