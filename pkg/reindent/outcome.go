package reindent

import (
	"github.com/yaklabco/retab/pkg/textdoc"
)

// Status reports whether an operation produced an edit batch or declined
// to touch the buffer.
type Status string

const (
	// StatusApplied means the block was evaluated and the outcome carries
	// its edit batch. The batch may be empty when every line already sat
	// at its target indentation.
	StatusApplied Status = "applied"

	// StatusPassThrough means the operation computed nothing and the
	// buffer must be left exactly as provided.
	StatusPassThrough Status = "pass-through"
)

// SkippedLine records a line the engine refused to evaluate.
type SkippedLine struct {
	// Line is the 1-based line number.
	Line int

	// Reason is a human-readable explanation for the skip.
	Reason string
}

// Outcome is the result of one conversion or re-indent operation.
type Outcome struct {
	// Status distinguishes an evaluated block from a pass-through.
	Status Status

	// Reason explains a pass-through Status. Nil when Status is
	// StatusApplied.
	Reason error

	// Edits is the batch to apply, in document order, expressed in
	// pre-edit coordinates. Every edit replaces exactly one line's
	// leading whitespace span and never crosses a line boundary.
	Edits []textdoc.Edit

	// Changes mirrors Edits with the per-line span lengths the selection
	// remapper consumes.
	Changes []textdoc.SpanChange

	// Skipped lists lines that were left untouched along with why.
	Skipped []SkippedLine
}

// HasEdits reports whether applying the outcome would change the buffer.
func (o *Outcome) HasEdits() bool {
	return len(o.Edits) > 0
}

// Remapper returns a position remapper for the outcome's edit batch.
func (o *Outcome) Remapper() *textdoc.Remapper {
	return textdoc.NewRemapper(o.Changes)
}

func passThrough(reason error) *Outcome {
	return &Outcome{Status: StatusPassThrough, Reason: reason}
}
