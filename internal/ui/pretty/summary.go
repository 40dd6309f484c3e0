package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/retab/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Examples: "3 files need changes (7 lines), 12 files checked" or
// "3 files rewritten (7 lines), 12 files checked".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesChanged == 0 {
		msg := s.Success.Render("All files clean") +
			s.Dim.Render(fmt.Sprintf(" (%d files checked)", stats.FilesProcessed))
		if stats.FilesSkipped > 0 {
			msg += s.Dim.Render(fmt.Sprintf(", %d skipped", stats.FilesSkipped))
		}
		if stats.FilesErrored > 0 {
			msg += ", " + s.Error.Render(fmt.Sprintf("%d errors", stats.FilesErrored))
		}
		return msg + "\n"
	}

	var parts []string

	if stats.FilesWritten > 0 {
		fileWord := wordFiles
		if stats.FilesWritten == 1 {
			fileWord = wordFile
		}
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s rewritten", stats.FilesWritten, fileWord))+
			s.Dim.Render(lineCount(stats.LinesChanged)))
		if remaining := stats.FilesChanged - stats.FilesWritten; remaining > 0 {
			parts = append(parts, s.Warning.Render(fmt.Sprintf("%d not written", remaining)))
		}
		if stats.BackupsCreated > 0 {
			parts = append(parts, s.Dim.Render(fmt.Sprintf("%d backups", stats.BackupsCreated)))
		}
	} else {
		needs := fmt.Sprintf("%d files need changes", stats.FilesChanged)
		if stats.FilesChanged == 1 {
			needs = "1 file needs changes"
		}
		parts = append(parts, s.Warning.Render(needs)+s.Dim.Render(lineCount(stats.LinesChanged)))
	}

	parts = append(parts, fmt.Sprintf("%d files checked", stats.FilesProcessed))

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d errors", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:     " +
			s.Warning.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}
	if stats.FilesWritten > 0 {
		builder.WriteString("  Files rewritten:   " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.BackupsCreated > 0 {
		builder.WriteString("  Backups created:   " +
			s.SummaryValue.Render(strconv.Itoa(stats.BackupsCreated)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files errored:     " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.LinesChanged > 0 {
		builder.WriteString("  Lines changed:     " +
			s.SummaryValue.Render(strconv.Itoa(stats.LinesChanged)) + "\n")
	}

	// Per-language breakdown
	if len(stats.ByLanguage) > 0 {
		builder.WriteString("\n")
		builder.WriteString("  By language:\n")
		for _, lang := range sortedLanguages(stats.ByLanguage) {
			count := stats.ByLanguage[lang]
			fileWord := wordFiles
			if count == 1 {
				fileWord = wordFile
			}
			builder.WriteString(fmt.Sprintf("    %-14s %s\n",
				lang, s.SummaryValue.Render(fmt.Sprintf("%d %s", count, fileWord))))
		}
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Completed with errors"))
	case stats.FilesWritten > 0:
		builder.WriteString(s.Success.Render("Indentation rewritten"))
	case stats.FilesChanged > 0:
		builder.WriteString(s.Warning.Render("Changes needed"))
	default:
		builder.WriteString(s.Success.Render("All files clean"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// sortedLanguages orders language ids by descending file count, ties by
// name, for stable breakdown output.
func sortedLanguages(byLanguage map[string]int) []string {
	out := make([]string, 0, len(byLanguage))
	for lang := range byLanguage {
		out = append(out, lang)
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(byLanguage[b], byLanguage[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}
