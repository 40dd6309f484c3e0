package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/retab/pkg/reindent"
)

// FormatFileResult renders one per-file status line: the path, a styled
// status word, and a line count where it adds information.
func (s *Styles) FormatFileResult(res *reindent.PipelineResult) string {
	path := s.FilePath.Render(res.Path)

	switch {
	case res.Skipped:
		return fmt.Sprintf("%s: %s\n", path, s.Dim.Render("skipped: "+res.SkipReason))
	case res.Written:
		status := "rewritten"
		if res.BackupCreated {
			status = "rewritten (backup created)"
		}
		return fmt.Sprintf("%s: %s%s\n", path, s.Success.Render(status), s.Dim.Render(lineCount(res.LinesChanged)))
	case res.Changed:
		return fmt.Sprintf("%s: %s%s\n", path, s.Warning.Render("needs changes"), s.Dim.Render(lineCount(res.LinesChanged)))
	default:
		return fmt.Sprintf("%s: %s\n", path, s.Dim.Render("ok"))
	}
}

// FormatFileError renders a per-file processing error.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render(fmt.Sprintf("error: %v", err)))
}

// FormatSkippedLines renders the engine's per-line skip notes, indented
// under the file status line.
func (s *Styles) FormatSkippedLines(skipped []reindent.SkippedLine) string {
	if len(skipped) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, sk := range skipped {
		builder.WriteString("    " +
			s.Location.Render(fmt.Sprintf("line %d:", sk.Line)) + " " +
			s.Dim.Render(sk.Reason) + "\n")
	}
	return builder.String()
}

// lineCount formats a trailing line-count annotation, empty when zero.
func lineCount(n int) string {
	if n == 0 {
		return ""
	}
	if n == 1 {
		return " (1 line)"
	}
	return fmt.Sprintf(" (%d lines)", n)
}
