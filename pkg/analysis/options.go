package analysis

// SortField specifies how to sort the mixed-files list.
type SortField string

const (
	// SortByCount sorts by mixed-line count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically by path.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	default:
		return false
	}
}

// Options configures Collect and Analyze.
type Options struct {
	// IncludeFiles includes the flat per-file list in the report.
	IncludeFiles bool

	// SortBy specifies how to sort the mixed-files list.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// Jobs caps Collect's concurrency. Zero means one worker per CPU.
	Jobs int

	// MaxFileSize caps how large a file Collect reads. Zero means the
	// pipeline default.
	MaxFileSize int64

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeFiles: true,
		SortBy:       SortByCount,
		SortDesc:     true,
	}
}
