package textdoc_test

import (
	"testing"

	"github.com/yaklabco/retab/pkg/textdoc"
)

func TestRemapperPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		changes []textdoc.SpanChange
		in      textdoc.Position
		want    textdoc.Position
	}{
		{
			name:    "untouched line is unchanged",
			changes: []textdoc.SpanChange{{Line: 2, OldLen: 1, NewLen: 4}},
			in:      pos(1, 7),
			want:    pos(1, 7),
		},
		{
			name:    "offset within expanded span keeps its column",
			changes: []textdoc.SpanChange{{Line: 2, OldLen: 1, NewLen: 4}},
			in:      pos(2, 3),
			want:    pos(2, 3),
		},
		{
			name:    "offset at new span end keeps its column",
			changes: []textdoc.SpanChange{{Line: 2, OldLen: 1, NewLen: 4}},
			in:      pos(2, 5),
			want:    pos(2, 5),
		},
		{
			name:    "offset past span shifts with content on expansion",
			changes: []textdoc.SpanChange{{Line: 2, OldLen: 1, NewLen: 4}},
			in:      pos(2, 6),
			want:    pos(2, 9),
		},
		{
			name:    "column one never moves",
			changes: []textdoc.SpanChange{{Line: 1, OldLen: 3, NewLen: 1}},
			in:      pos(1, 1),
			want:    pos(1, 1),
		},
		{
			name:    "offset within shrunk span clamps to span end",
			changes: []textdoc.SpanChange{{Line: 1, OldLen: 3, NewLen: 1}},
			in:      pos(1, 3),
			want:    pos(1, 2),
		},
		{
			name:    "content position shifts left on shrink",
			changes: []textdoc.SpanChange{{Line: 1, OldLen: 3, NewLen: 1}},
			in:      pos(1, 5),
			want:    pos(1, 3),
		},
		{
			name:    "zero delta is identity",
			changes: []textdoc.SpanChange{{Line: 1, OldLen: 4, NewLen: 4}},
			in:      pos(1, 9),
			want:    pos(1, 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := textdoc.NewRemapper(tt.changes)
			if got := m.Position(tt.in); got != tt.want {
				t.Errorf("Position(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemapperSelection(t *testing.T) {
	t.Parallel()

	// Tab expanded to four spaces on line 2 only.
	m := textdoc.NewRemapper([]textdoc.SpanChange{{Line: 2, OldLen: 1, NewLen: 4}})

	sel := textdoc.Selection{Anchor: pos(2, 3), Active: pos(2, 8)}
	got := m.Selection(sel)

	if got.Anchor != pos(2, 3) {
		t.Errorf("anchor = %+v, want unchanged (2,3)", got.Anchor)
	}
	if got.Active != pos(2, 11) {
		t.Errorf("active = %+v, want shifted (2,11)", got.Active)
	}
	if got.IsReversed() {
		t.Error("orientation flipped during remap")
	}
}

func TestRemapperReversedSelectionKeepsAnchor(t *testing.T) {
	t.Parallel()

	m := textdoc.NewRemapper([]textdoc.SpanChange{{Line: 1, OldLen: 2, NewLen: 8}})

	sel := textdoc.Selection{Anchor: pos(1, 12), Active: pos(1, 1)}
	got := m.Selection(sel)

	if got.Anchor != pos(1, 18) {
		t.Errorf("anchor = %+v, want (1,18)", got.Anchor)
	}
	if got.Active != pos(1, 1) {
		t.Errorf("active = %+v, want (1,1)", got.Active)
	}
	if !got.IsReversed() {
		t.Error("reversed selection lost its orientation")
	}
}

func TestRemapperRange(t *testing.T) {
	t.Parallel()

	m := textdoc.NewRemapper([]textdoc.SpanChange{
		{Line: 1, OldLen: 1, NewLen: 4},
		{Line: 3, OldLen: 4, NewLen: 1},
	})

	r := textdoc.Range{Start: pos(1, 6), End: pos(3, 8)}
	got := m.Range(r)

	if got.Start != pos(1, 9) {
		t.Errorf("start = %+v, want (1,9)", got.Start)
	}
	if got.End != pos(3, 5) {
		t.Errorf("end = %+v, want (3,5)", got.End)
	}
}
