package runner

import "github.com/yaklabco/retab/pkg/reindent"

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// May be nil if the file encountered an error during processing.
	Result *reindent.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesChanged is the number of files whose indentation differs from
	// the target (rewritten in write mode, reported otherwise).
	FilesChanged int

	// FilesSkipped is the number of files skipped (undetected language,
	// concurrent modification).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesWritten is the number of files rewritten on disk.
	FilesWritten int

	// BackupsCreated is the number of backup files created.
	BackupsCreated int

	// LinesChanged is the total number of lines rewritten across all files.
	LinesChanged int

	// ByLanguage counts processed files per resolved language id.
	ByLanguage map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasChanges reports whether any file needs (or received) changes.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		ByLanguage: make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	if outcome.Result == nil {
		return
	}

	res := outcome.Result
	r.Stats.FilesProcessed++

	if res.Skipped {
		r.Stats.FilesSkipped++
		return
	}

	if res.Language != "" {
		r.Stats.ByLanguage[res.Language]++
	}

	if res.Changed {
		r.Stats.FilesChanged++
		r.Stats.LinesChanged += res.LinesChanged
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.BackupCreated {
		r.Stats.BackupsCreated++
	}
}
