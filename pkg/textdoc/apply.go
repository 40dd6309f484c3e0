package textdoc

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// Batch error sentinels. Callers categorize with errors.Is.
var (
	// ErrInvalidRange indicates an edit addresses a position outside the
	// document. The whole batch is rejected.
	ErrInvalidRange = errors.New("invalid range")

	// ErrConflictingEdits indicates two edits in one batch overlap. The
	// whole batch is rejected.
	ErrConflictingEdits = errors.New("conflicting edits")
)

// RangeError describes an edit whose range does not address the document.
type RangeError struct {
	Edit    Edit
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid edit range %d:%d-%d:%d: %s",
		e.Edit.Range.Start.Line, e.Edit.Range.Start.Column,
		e.Edit.Range.End.Line, e.Edit.Range.End.Column, e.Message)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// ConflictError describes two overlapping edits in one batch.
type ConflictError struct {
	First  Edit
	Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits at %d:%d and %d:%d",
		e.First.Range.Start.Line, e.First.Range.Start.Column,
		e.Second.Range.Start.Line, e.Second.Range.Start.Column)
}

func (e *ConflictError) Unwrap() error { return ErrConflictingEdits }

// offsetEdit is an edit resolved to byte offsets in the original content.
type offsetEdit struct {
	start, end int
	newText    string
}

// resolveEdits converts range edits to offset edits against d, validating
// each range. Ranges are all interpreted in d's coordinates; edits in a
// batch never shift each other.
func (d *Document) resolveEdits(edits []Edit) ([]offsetEdit, error) {
	resolved := make([]offsetEdit, 0, len(edits))
	for _, e := range edits {
		if e.Range.End.Before(e.Range.Start) {
			return nil, &RangeError{Edit: e, Message: "end precedes start"}
		}
		start, ok := d.Offset(e.Range.Start)
		if !ok {
			return nil, &RangeError{Edit: e, Message: "start outside document"}
		}
		end, ok := d.Offset(e.Range.End)
		if !ok {
			return nil, &RangeError{Edit: e, Message: "end outside document"}
		}
		resolved = append(resolved, offsetEdit{start: start, end: end, newText: e.NewText})
	}
	return resolved, nil
}

// ApplyEdits applies a batch of edits atomically and returns the new
// content. Every range is validated against the original document and the
// sorted batch is checked for overlap before any splicing happens: either
// all edits land or none do. The document itself is not mutated.
func (d *Document) ApplyEdits(edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return d.content, nil
	}

	resolved, err := d.resolveEdits(edits)
	if err != nil {
		return nil, err
	}

	sort.Slice(resolved, func(i, j int) bool {
		if resolved[i].start != resolved[j].start {
			return resolved[i].start < resolved[j].start
		}
		return resolved[i].end < resolved[j].end
	})

	for i := 1; i < len(resolved); i++ {
		if resolved[i].start < resolved[i-1].end {
			return nil, &ConflictError{
				First:  Edit{Range: NewRange(d.PositionAt(resolved[i-1].start), d.PositionAt(resolved[i-1].end))},
				Second: Edit{Range: NewRange(d.PositionAt(resolved[i].start), d.PositionAt(resolved[i].end))},
			}
		}
	}

	delta := 0
	for _, e := range resolved {
		delta += len(e.newText) - (e.end - e.start)
	}

	var out bytes.Buffer
	out.Grow(len(d.content) + delta)

	cursor := 0
	for _, e := range resolved {
		out.Write(d.content[cursor:e.start])
		out.WriteString(e.newText)
		cursor = e.end
	}
	out.Write(d.content[cursor:])

	return out.Bytes(), nil
}

// ValidateRange checks a range against the document without applying
// anything. Used by operations that must reject bad input before doing
// work.
func (d *Document) ValidateRange(r Range) error {
	if r.End.Before(r.Start) {
		return &RangeError{Edit: Edit{Range: r}, Message: "end precedes start"}
	}
	if !d.ValidPosition(r.Start) {
		return &RangeError{Edit: Edit{Range: r}, Message: "start outside document"}
	}
	if !d.ValidPosition(r.End) {
		return &RangeError{Edit: Edit{Range: r}, Message: "end outside document"}
	}
	return nil
}
