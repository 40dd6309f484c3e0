// Package reindent computes leading-whitespace edit batches for a text
// document: tab/space conversion and rule-driven re-indentation of
// inserted blocks.
//
// Operations never mutate the document. They return an Outcome holding
// edits in pre-edit coordinates, to be applied as one atomic batch via
// textdoc.ApplyEdits, plus the span changes the selection remapper needs.
// Visible content is never touched; only leading whitespace moves.
package reindent

import (
	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/textdoc"
	"github.com/yaklabco/retab/pkg/token"
)

// DefaultMaxLineLength bounds per-line rule evaluation, in bytes. Lines
// past the bound are skipped and recorded on the outcome instead of
// aborting the block.
const DefaultMaxLineLength = 10000

// Options control how re-indent operations render and evaluate lines.
type Options struct {
	// Style selects tab or space indentation for rendered levels.
	Style indent.Style

	// TabSize is the tab stop width in columns. Zero selects
	// indent.DefaultTabSize.
	TabSize int

	// MaxLineLength bounds rule evaluation per line, in bytes. Zero
	// selects DefaultMaxLineLength.
	MaxLineLength int

	// Classifier optionally supplies host token classifications to the
	// scope tracker. When nil the tracker falls back to its own
	// delimiter scan.
	Classifier token.Classifier
}

func (o Options) normalized() (Options, error) {
	if o.TabSize == 0 {
		o.TabSize = indent.DefaultTabSize
	}
	if err := indent.ValidateTabSize(o.TabSize); err != nil {
		return o, err
	}
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = DefaultMaxLineLength
	}
	return o, nil
}

// ConvertIndentation re-encodes the leading whitespace of every line the
// range touches to the given style. Rendered width and visible content
// are preserved; no indentation rules are consulted, so the operation
// works on any file regardless of language.
func ConvertIndentation(doc *textdoc.Document, rng textdoc.Range, style indent.Style, tabSize int) (*Outcome, error) {
	if tabSize == 0 {
		tabSize = indent.DefaultTabSize
	}
	if err := indent.ValidateTabSize(tabSize); err != nil {
		return nil, err
	}
	if err := doc.ValidateRange(rng); err != nil {
		return nil, err
	}

	out := &Outcome{Status: StatusApplied}
	first, last := rng.Lines()
	for n := first; n <= last; n++ {
		text := doc.Line(n)
		converted, oldLen, newLen := indent.ConvertLine(text, style, tabSize)
		if converted == text {
			continue
		}
		out.Edits = append(out.Edits, textdoc.Edit{
			Range:   leadingSpanRange(n, oldLen),
			NewText: converted[:newLen],
		})
		out.Changes = append(out.Changes, textdoc.SpanChange{Line: n, OldLen: oldLen, NewLen: newLen})
	}
	return out, nil
}

// ReindentBlock re-indents a block of freshly inserted lines, typically a
// paste or a newline insertion. The line above the block anchors the
// starting nesting level. Lines matching indentation rules snap to their
// computed level; rule-silent lines shift uniformly with the block so a
// pasted snippet's internal alignment survives. Without a language, or
// with a language that has no indentation rules, the block passes through
// untouched.
func ReindentBlock(doc *textdoc.Document, rng textdoc.Range, lang *language.Language, opts Options) (*Outcome, error) {
	return run(doc, rng, lang, opts, false)
}

// ReindentLines normalizes every line the range touches to its computed
// nesting level, including rule-silent lines. This is the strict variant
// used for whole-file normalization; ReindentBlock is the gentle editing
// variant.
func ReindentLines(doc *textdoc.Document, rng textdoc.Range, lang *language.Language, opts Options) (*Outcome, error) {
	return run(doc, rng, lang, opts, true)
}

func run(doc *textdoc.Document, rng textdoc.Range, lang *language.Language, opts Options, snapSilent bool) (*Outcome, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	if err := doc.ValidateRange(rng); err != nil {
		return nil, err
	}
	if lang == nil || !lang.HasIndentRules() {
		return passThrough(ErrMissingConfiguration), nil
	}
	return newEngine(doc, lang, opts, snapSilent).run(rng), nil
}

func leadingSpanRange(line, spanLen int) textdoc.Range {
	return textdoc.Range{
		Start: textdoc.Position{Line: line, Column: 1},
		End:   textdoc.Position{Line: line, Column: spanLen + 1},
	}
}
