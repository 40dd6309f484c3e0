package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/yaklabco/retab/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string            `json:"path"`
	Language      string            `json:"language,omitempty"`
	TabSize       int               `json:"tabSize,omitempty"`
	Changed       bool              `json:"changed"`
	LinesChanged  int               `json:"linesChanged,omitempty"`
	Written       bool              `json:"written,omitempty"`
	BackupCreated bool              `json:"backupCreated,omitempty"`
	Skipped       bool              `json:"skipped,omitempty"`
	SkipReason    string            `json:"skipReason,omitempty"`
	SkippedLines  []JSONSkippedLine `json:"skippedLines,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// JSONSkippedLine is a line the engine refused to rewrite.
type JSONSkippedLine struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int            `json:"filesChecked"`
	FilesChanged int            `json:"filesChanged"`
	FilesWritten int            `json:"filesWritten"`
	FilesSkipped int            `json:"filesSkipped"`
	FilesErrored int            `json:"filesErrored"`
	LinesChanged int            `json:"linesChanged"`
	ByLanguage   map[string]int `json:"byLanguage"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByLanguage: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path: displayPath(file.Path, r.opts.WorkingDir),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if res := file.Result; res != nil {
			fileResult.Language = res.Language
			fileResult.TabSize = res.TabSize
			fileResult.Changed = res.Changed
			fileResult.LinesChanged = res.LinesChanged
			fileResult.Written = res.Written
			fileResult.BackupCreated = res.BackupCreated
			fileResult.Skipped = res.Skipped
			fileResult.SkipReason = res.SkipReason

			for _, sk := range res.SkippedLines {
				fileResult.SkippedLines = append(fileResult.SkippedLines, JSONSkippedLine{
					Line:   sk.Line,
					Reason: sk.Reason,
				})
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesChecked = stats.FilesProcessed
	output.Summary.FilesChanged = stats.FilesChanged
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.LinesChanged = stats.LinesChanged
	maps.Copy(output.Summary.ByLanguage, stats.ByLanguage)

	return output
}
