package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/retab/internal/ui/pretty"
	"github.com/yaklabco/retab/pkg/runner"
)

// TextReporter formats results as styled terminal output: one status
// line per file of interest plus a one-line summary.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to process."))
		}
		return 0, nil
	}

	var changed int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(displayPath(file.Path, r.opts.WorkingDir), file.Error))
			continue
		}
		if file.Result == nil {
			continue
		}

		res := *file.Result
		res.Path = displayPath(res.Path, r.opts.WorkingDir)

		if res.Changed && !res.Skipped {
			changed++
		}

		// Clean files only appear in verbose mode.
		if !r.opts.Verbose && !res.Changed && !res.Skipped {
			continue
		}

		fmt.Fprint(r.bw, r.styles.FormatFileResult(&res))
		if r.opts.Verbose {
			fmt.Fprint(r.bw, r.styles.FormatSkippedLines(res.SkippedLines))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return changed, nil
}
