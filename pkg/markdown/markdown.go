// Package markdown applies retab operations to fenced code blocks inside
// Markdown documents. Each fence whose info string names a registered
// language is treated as an embedded document: its lines are converted or
// re-indented in isolation and the edits mapped back to whole-file
// coordinates. Everything outside fences, including the fences
// themselves, is never touched.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/reindent"
	"github.com/yaklabco/retab/pkg/textdoc"
)

// Extensions returns the file extensions the planner claims.
func Extensions() []string {
	return []string{".md", ".markdown", ".mdown", ".mkd"}
}

// Register installs the planner on a pipeline for every Markdown
// extension.
func Register(p *reindent.Pipeline) {
	planner := NewPlanner()
	for _, ext := range Extensions() {
		p.RegisterPlanner(ext, planner)
	}
}

// NewPlanner returns a planner that converts or re-indents fenced code
// blocks. Fences with no info string, or an info string that resolves to
// no registered language, pass through untouched.
func NewPlanner() reindent.Planner {
	md := goldmark.New()
	return func(doc *textdoc.Document, req reindent.PlanRequest) (*reindent.Outcome, error) {
		return plan(md, doc, req)
	}
}

// lineRef ties one line of an embedded block to its place in the whole
// file: the 1-based line number and the column where block content
// starts. For fences indented inside list items the column is past the
// stripped fence indentation.
type lineRef struct {
	line int
	col  int
}

func plan(md goldmark.Markdown, doc *textdoc.Document, req reindent.PlanRequest) (*reindent.Outcome, error) {
	content := doc.Content()
	root := md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	out := &reindent.Outcome{Status: reindent.StatusApplied}
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if err := planBlock(doc, block, req, out); err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return out, nil
}

// planBlock runs the requested operation over one fenced block and folds
// the translated edits into out.
func planBlock(doc *textdoc.Document, block *ast.FencedCodeBlock, req reindent.PlanRequest, out *reindent.Outcome) error {
	lang, ok := resolveInfo(doc.Content(), block, req.Registry)
	if !ok {
		return nil
	}

	segments := block.Lines()
	if segments.Len() == 0 {
		return nil
	}

	// Collect the block's lines with their whole-file origins. Segment
	// starts sit past any stripped fence indentation, so the extracted
	// text is the logical block content.
	refs := make([]lineRef, 0, segments.Len())
	texts := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		pos := doc.PositionAt(segments.At(i).Start)
		raw := doc.Line(pos.Line)
		refs = append(refs, lineRef{line: pos.Line, col: pos.Column})
		texts = append(texts, raw[pos.Column-1:])
	}

	sub := textdoc.NewDocument(doc.Path, []byte(strings.Join(texts, "\n")))
	rng := textdoc.Range{
		Start: textdoc.Position{Line: 1, Column: 1},
		End:   textdoc.Position{Line: sub.LineCount(), Column: len(sub.Line(sub.LineCount())) + 1},
	}

	var res *reindent.Outcome
	var err error
	if req.Op == reindent.OpReindent {
		res, err = reindent.ReindentLines(sub, rng, lang, reindent.Options{Style: req.Style, TabSize: req.TabSize})
	} else {
		res, err = reindent.ConvertIndentation(sub, rng, req.Style, req.TabSize)
	}
	if err != nil {
		return fmt.Errorf("block at line %d: %w", refs[0].line, err)
	}

	if res.Status == reindent.StatusPassThrough {
		out.Skipped = append(out.Skipped, reindent.SkippedLine{
			Line:   refs[0].line,
			Reason: fmt.Sprintf("%s block: no indentation rules", lang.ID()),
		})
		return nil
	}

	// Translate edits back to whole-file coordinates. Block edits always
	// replace a leading span starting at column 1 of the embedded line,
	// which lands at the origin column in the file.
	for _, e := range res.Edits {
		ref := refs[e.Range.Start.Line-1]
		spanLen := e.Range.End.Column - e.Range.Start.Column
		out.Edits = append(out.Edits, textdoc.Edit{
			Range: textdoc.Range{
				Start: textdoc.Position{Line: ref.line, Column: ref.col},
				End:   textdoc.Position{Line: ref.line, Column: ref.col + spanLen},
			},
			NewText: e.NewText,
		})
	}
	// Span changes fold the fence indentation into the leading span so
	// selection remapping stays monotonic across the whole line.
	for _, c := range res.Changes {
		ref := refs[c.Line-1]
		out.Changes = append(out.Changes, textdoc.SpanChange{
			Line:   ref.line,
			OldLen: ref.col - 1 + c.OldLen,
			NewLen: ref.col - 1 + c.NewLen,
		})
	}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, reindent.SkippedLine{
			Line:   refs[s.Line-1].line,
			Reason: s.Reason,
		})
	}
	return nil
}

// resolveInfo maps a fence's info string to a registered language. The
// first whitespace-delimited word is the language key, matching how
// viewers pick highlighters.
func resolveInfo(content []byte, block *ast.FencedCodeBlock, reg *language.Registry) (*language.Language, bool) {
	if reg == nil {
		reg = language.DefaultRegistry
	}
	key := strings.ToLower(string(block.Language(content)))
	if key == "" {
		return nil, false
	}
	return reg.Lookup(key)
}
