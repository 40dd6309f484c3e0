package reporter

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/retab/internal/ui/pretty"
	"github.com/yaklabco/retab/pkg/runner"
)

// Layout constants for the changed-files breakdown.
const (
	tableWidth        = 80 // Width of the separator line.
	fileColWidth      = 58 // Width of the file path column.
	numColWidth       = 7  // Width of the lines column.
	statusColWidth    = 13 // Width of the status column.
	maxFilePathLength = 56 // Maximum characters for file path before truncation.
	maxBreakdownRows  = 20 // Maximum files listed before eliding the rest.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryReporter formats results as an aggregate block with a
// changed-files breakdown.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		fmt.Fprintln(r.out, r.styles.Success.Render("All files clean"))
		return 0, nil
	}

	if result.Stats.FilesChanged > 0 {
		r.renderChangedFiles(result)
	}

	fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats))

	return result.Stats.FilesChanged, nil
}

// changedFile is one row of the breakdown.
type changedFile struct {
	path    string
	lines   int
	written bool
}

// renderChangedFiles writes the per-file breakdown ordered by lines
// changed, largest first.
func (r *SummaryReporter) renderChangedFiles(result *runner.Result) {
	rows := make([]changedFile, 0, result.Stats.FilesChanged)
	for _, file := range result.Files {
		res := file.Result
		if file.Error != nil || res == nil || res.Skipped || !res.Changed {
			continue
		}
		rows = append(rows, changedFile{
			path:    displayPath(res.Path, r.opts.WorkingDir),
			lines:   res.LinesChanged,
			written: res.Written,
		})
	}
	if len(rows) == 0 {
		return
	}

	slices.SortFunc(rows, func(a, b changedFile) int {
		if c := cmp.Compare(b.lines, a.lines); c != 0 {
			return c
		}
		return cmp.Compare(a.path, b.path)
	})

	fmt.Fprintln(r.out, r.styles.Bold.Render("Changed Files"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Lines", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Status", statusColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	shown := rows
	if len(shown) > maxBreakdownRows {
		shown = shown[:maxBreakdownRows]
	}

	for _, row := range shown {
		path := row.path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		status := "needs changes"
		styledStatus := r.styles.Warning.Render(padLeft(status, statusColWidth))
		if row.written {
			status = "rewritten"
			styledStatus = r.styles.Success.Render(padLeft(status, statusColWidth))
		}

		fmt.Fprintf(r.out, "%s %s %s\n",
			padRight(path, fileColWidth),
			padLeft(strconv.Itoa(row.lines), numColWidth),
			styledStatus,
		)
	}

	if elided := len(rows) - len(shown); elided > 0 {
		fmt.Fprintln(r.out, r.styles.Dim.Render(fmt.Sprintf("… and %d more", elided)))
	}
}
