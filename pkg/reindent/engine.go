package reindent

import (
	"fmt"

	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/scope"
	"github.com/yaklabco/retab/pkg/textdoc"
)

// engine walks a block of lines top to bottom, carrying the nesting level
// and scope state forward and emitting at most one leading-span edit per
// line. It never looks back further than the single anchor line above
// the block.
type engine struct {
	doc        *textdoc.Document
	lang       *language.Language
	tracker    *scope.Tracker
	opts       Options
	snapSilent bool

	// level is the persistent nesting depth in indent units. ephemeral
	// is the one-line bonus armed by an indentNextLine match, consumed
	// by the next evaluated line and never carried further.
	level     int
	ephemeral int

	// shiftCols is the column delta the block has accumulated so far,
	// applied to rule-silent lines so a pasted snippet's internal
	// alignment survives. Meaningless until anchored is set by the first
	// line that received a target.
	shiftCols int
	anchored  bool

	out *Outcome
}

func newEngine(doc *textdoc.Document, lang *language.Language, opts Options, snapSilent bool) *engine {
	return &engine{
		doc:        doc,
		lang:       lang,
		tracker:    scope.NewTracker(lang, opts.Classifier),
		opts:       opts,
		snapSilent: snapSilent,
		out:        &Outcome{Status: StatusApplied},
	}
}

func (e *engine) run(rng textdoc.Range) *Outcome {
	first, last := rng.Lines()
	seeded := e.seedAnchor(first)

	for n := first; n <= last; n++ {
		raw := e.doc.Line(n)
		scan := e.tracker.Scan(n, raw)

		if len(raw) > e.opts.MaxLineLength {
			e.out.Skipped = append(e.out.Skipped, SkippedLine{
				Line:   n,
				Reason: fmt.Sprintf("line exceeds %d bytes, rules not evaluated", e.opts.MaxLineLength),
			})
			continue
		}
		if scan.OpensInside {
			// Continuation of a block comment or string keeps its leading
			// whitespace verbatim. Code after a close marker on the same
			// line still feeds the nesting level.
			if scan.RuleText != "" {
				e.updateState(e.lang.ClassifyIndent(scan.RuleText))
			}
			continue
		}
		if indent.IsBlank(raw) {
			// Blank lines get no edit and perturb no state: an armed
			// ephemeral bonus survives them to the next real line.
			continue
		}
		if e.lang.MatchesUnindented(raw) {
			// Forced to column 0; transparent to the nesting math.
			e.emit(n, raw, "")
			continue
		}
		e.apply(n, raw, e.lang.ClassifyIndent(scan.RuleText), seeded)
	}
	return e.out
}

// seedAnchor derives the starting nesting level from the line immediately
// above the block and reports whether that line carried usable context.
// A blank anchor seeds nothing: gentle mode then leaves the first
// rule-silent line where it is instead of snapping it to column 0.
func (e *engine) seedAnchor(first int) bool {
	anchor := first - 1
	if anchor < 1 {
		// Block at buffer start: column 0 is the true context.
		return true
	}

	text := e.doc.Line(anchor)
	scan := e.tracker.Scan(anchor, text)
	if indent.IsBlank(text) {
		return false
	}

	e.level = indent.Depth(text, e.opts.TabSize)
	sig := e.lang.ClassifyIndent(scan.RuleText)
	if sig.Increase {
		e.level++
	}
	if sig.IndentNextLine && !sig.Increase {
		e.ephemeral = 1
	}
	return true
}

func (e *engine) apply(n int, raw string, sig language.IndentSignals, seeded bool) {
	silent := !sig.Increase && !sig.Decrease && !sig.IndentNextLine
	span := indent.LeadingSpan(raw)
	cols := indent.SpanWidth(raw[:span], e.opts.TabSize)

	if silent && !e.snapSilent && e.ephemeral == 0 {
		switch {
		case e.anchored:
			e.emitCols(n, raw, span, cols+e.shiftCols)
		case seeded:
			// First evaluated line of the block snaps to the anchor
			// context and establishes the shift for the lines below.
			target := e.level * e.opts.TabSize
			e.anchored, e.shiftCols = true, target-cols
			e.emitCols(n, raw, span, target)
		default:
			// No anchor context: the line's own indentation is the only
			// information there is. Keep its width and shift nothing.
			e.anchored, e.shiftCols = true, 0
			e.emitCols(n, raw, span, cols)
		}
		return
	}

	target := e.level + e.ephemeral
	if sig.Decrease && target > 0 {
		target--
	}
	e.emit(n, raw, indent.Render(target, e.opts.Style, e.opts.TabSize))
	e.anchored, e.shiftCols = true, target*e.opts.TabSize-cols
	e.updateState(sig)
}

// updateState folds one line's signals into the persistent level and the
// ephemeral bonus. A decrease and an increase on the same line cancel so
// a close-then-reopen nets to no change; an indentNextLine arms the bonus
// only when no increase already persists.
func (e *engine) updateState(sig language.IndentSignals) {
	if sig.Decrease && e.level > 0 {
		e.level--
	}
	if sig.Increase {
		e.level++
	}
	e.ephemeral = 0
	if sig.IndentNextLine && !sig.Increase {
		e.ephemeral = 1
	}
}

func (e *engine) emitCols(n int, raw string, span, targetCols int) {
	if targetCols < 0 {
		targetCols = 0
	}
	e.emitSpan(n, raw, span, indent.RenderColumns(targetCols, e.opts.Style, e.opts.TabSize))
}

func (e *engine) emit(n int, raw, rendered string) {
	e.emitSpan(n, raw, indent.LeadingSpan(raw), rendered)
}

// emitSpan records one leading-span replacement. Equal indentation emits
// nothing, which is what makes the engine idempotent on its own output.
func (e *engine) emitSpan(n int, raw string, span int, rendered string) {
	if raw[:span] == rendered {
		return
	}
	e.out.Edits = append(e.out.Edits, textdoc.Edit{
		Range:   leadingSpanRange(n, span),
		NewText: rendered,
	})
	e.out.Changes = append(e.out.Changes, textdoc.SpanChange{Line: n, OldLen: span, NewLen: len(rendered)})
}
