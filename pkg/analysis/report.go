package analysis

import "time"

// Report contains pre-computed views of an indentation survey.
// Computed once by Analyze(), used by all output formats.
type Report struct {
	// Files is the flat per-file list for detailed output.
	Files []FileIndentation `json:"files,omitempty"`

	// BySize aggregates space-indented files by inferred tab size.
	BySize []SizeBucket `json:"bySize,omitempty"`

	// Mixed lists files containing lines that mix tabs and spaces.
	Mixed []MixedFile `json:"mixed,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// FileIndentation is one file's inferred indentation.
type FileIndentation struct {
	Path       string `json:"path"`
	Language   string `json:"language,omitempty"`
	Style      string `json:"style,omitempty"`
	TabSize    int    `json:"tabSize,omitempty"`
	Confident  bool   `json:"confident"`
	Indented   int    `json:"indentedLines"`
	TabLines   int    `json:"tabLines"`
	SpaceLines int    `json:"spaceLines"`
	MixedLines int    `json:"mixedLines"`
	Error      string `json:"error,omitempty"`
}

// SizeBucket counts space-indented files sharing an inferred tab size.
type SizeBucket struct {
	Size  int `json:"size"`
	Files int `json:"files"`
}

// MixedFile is a file whose indentation mixes tabs and spaces.
type MixedFile struct {
	Path       string `json:"path"`
	Style      string `json:"style"`
	MixedLines int    `json:"mixedLines"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files      int `json:"filesScanned"`
	Analyzed   int `json:"filesAnalyzed"`
	TabFiles   int `json:"tabFiles"`
	SpaceFiles int `json:"spaceFiles"`
	Undecided  int `json:"undecided"`
	MixedFiles int `json:"mixedFiles"`
	MixedLines int `json:"mixedLines"`
	Errored    int `json:"errored"`
}

// HasMixed returns true if any file mixes tabs and spaces.
func (t Totals) HasMixed() bool {
	return t.MixedFiles > 0
}

// HasErrors returns true if any file could not be read.
func (t Totals) HasErrors() bool {
	return t.Errored > 0
}

// Dominant returns the majority style across confidently analyzed files,
// or empty when tab and space files tie (including zero of each).
func (t Totals) Dominant() string {
	switch {
	case t.TabFiles > t.SpaceFiles:
		return styleTab
	case t.SpaceFiles > t.TabFiles:
		return styleSpace
	default:
		return ""
	}
}
