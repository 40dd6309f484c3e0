package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/retab/pkg/analysis"
)

// FormatAnalysis renders an indentation survey as a summary block.
func (s *Styles) FormatAnalysis(report *analysis.Report) string {
	var builder strings.Builder

	totals := report.Totals

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Indentation survey"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files scanned:     " +
		s.SummaryValue.Render(strconv.Itoa(totals.Files)) + "\n")
	builder.WriteString("  Tab indented:      " +
		s.SummaryValue.Render(strconv.Itoa(totals.TabFiles)) + "\n")
	builder.WriteString("  Space indented:    " +
		s.SummaryValue.Render(strconv.Itoa(totals.SpaceFiles)) + "\n")

	if totals.Undecided > 0 {
		builder.WriteString("  Undecided:         " +
			s.Dim.Render(strconv.Itoa(totals.Undecided)) + "\n")
	}
	if totals.Errored > 0 {
		builder.WriteString("  Errors:            " +
			s.Error.Render(strconv.Itoa(totals.Errored)) + "\n")
	}

	// Tab-size histogram for space-indented files
	if len(report.BySize) > 0 {
		builder.WriteString("\n")
		builder.WriteString("  Space files by size:\n")
		for _, bucket := range report.BySize {
			fileWord := wordFiles
			if bucket.Files == 1 {
				fileWord = wordFile
			}
			builder.WriteString(fmt.Sprintf("    %-14s %s\n",
				fmt.Sprintf("%d spaces", bucket.Size),
				s.SummaryValue.Render(fmt.Sprintf("%d %s", bucket.Files, fileWord))))
		}
	}

	// Files whose lines mix tabs with spaces
	if len(report.Mixed) > 0 {
		mixedWord := wordFiles
		if totals.MixedFiles == 1 {
			mixedWord = wordFile
		}
		builder.WriteString("\n")
		builder.WriteString("  " + s.Warning.Render(fmt.Sprintf(
			"Mixed indentation (%d %s, %d lines):",
			totals.MixedFiles, mixedWord, totals.MixedLines)) + "\n")
		for _, mixed := range report.Mixed {
			builder.WriteString(fmt.Sprintf("    %s  %s\n",
				s.FilePath.Render(mixed.Path),
				s.Dim.Render(fmt.Sprintf("%d lines (%s)", mixed.MixedLines, mixed.Style))))
		}
	}

	// Per-file breakdown, when requested
	if len(report.Files) > 0 {
		builder.WriteString("\n")
		builder.WriteString("    " + s.TableHeader.Render(
			fmt.Sprintf("%-36s  %-9s %s", "file", "style", "lines")) + "\n")
		builder.WriteString("    " + s.TableSeparator.Render(strings.Repeat("-", 56)) + "\n")
		for _, file := range report.Files {
			builder.WriteString("    " + s.formatFileIndentation(file) + "\n")
		}
	}

	builder.WriteString("\n")

	switch dominant := totals.Dominant(); {
	case totals.Analyzed == 0 && totals.Errored > 0:
		builder.WriteString(s.Failure.Render("Nothing analyzed"))
	case dominant != "":
		builder.WriteString(s.Bold.Render("Dominant style: ") + s.SummaryValue.Render(dominant))
	default:
		builder.WriteString(s.Dim.Render("No dominant style"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// formatFileIndentation renders one per-file line of the survey.
func (s *Styles) formatFileIndentation(file analysis.FileIndentation) string {
	if file.Error != "" {
		return s.FilePath.Render(file.Path) + "  " +
			s.Error.Render("error: "+file.Error)
	}

	style := file.Style
	if style == "space" {
		style = fmt.Sprintf("space/%d", file.TabSize)
	}

	details := fmt.Sprintf("%d indented", file.Indented)
	if file.MixedLines > 0 {
		details += fmt.Sprintf(", %d mixed", file.MixedLines)
	}

	// Pad before styling so ANSI codes don't skew the columns.
	return fmt.Sprintf("%s  %-9s %s",
		s.FilePath.Render(fmt.Sprintf("%-36s", file.Path)),
		style,
		s.Dim.Render(details))
}
