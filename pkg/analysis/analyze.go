// Package analysis surveys the indentation of a file set: per-file style
// and tab-size guesses aggregated into style counts, a tab-size
// histogram, and a mixed-indentation file list.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/retab/pkg/indent"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// Style name constants used in report fields.
const (
	styleTab     = "tab"
	styleSpace   = "space"
	styleUnknown = "unknown"
)

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// styleName returns the report style string for a guess. An unconfident
// guess reads "unknown" regardless of the tentative verdict.
func styleName(g indent.Guess) string {
	if !g.Confident {
		return styleUnknown
	}
	return g.Style.String()
}

// Analyze aggregates per-file samples into a Report.
// It performs a single pass through the samples to compute all views.
func Analyze(samples []Sample, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	sizeFiles := make(map[int]int)

	for _, s := range samples {
		report.Totals.Files++
		displayPath := makeRelativePath(s.Path, opts.WorkingDir)

		if s.Err != nil {
			report.Totals.Errored++
			if opts.IncludeFiles {
				report.Files = append(report.Files, FileIndentation{
					Path:  displayPath,
					Error: s.Err.Error(),
				})
			}
			continue
		}

		g := s.Guess
		report.Totals.Analyzed++

		switch {
		case !g.Confident:
			report.Totals.Undecided++
		case g.Style == indent.Spaces:
			report.Totals.SpaceFiles++
			sizeFiles[g.TabSize]++
		default:
			report.Totals.TabFiles++
		}

		if g.MixedLines > 0 {
			report.Totals.MixedFiles++
			report.Totals.MixedLines += g.MixedLines
			report.Mixed = append(report.Mixed, MixedFile{
				Path:       displayPath,
				Style:      styleName(g),
				MixedLines: g.MixedLines,
			})
		}

		if opts.IncludeFiles {
			report.Files = append(report.Files, FileIndentation{
				Path:       displayPath,
				Language:   s.Language,
				Style:      styleName(g),
				TabSize:    g.TabSize,
				Confident:  g.Confident,
				Indented:   g.Indented,
				TabLines:   g.TabLines,
				SpaceLines: g.SpaceLines,
				MixedLines: g.MixedLines,
			})
		}
	}

	report.BySize = buildBySize(sizeFiles)
	sortMixedFiles(report.Mixed, opts.SortBy, opts.SortDesc)

	return report
}

// buildBySize converts the size histogram map into a slice sorted by
// tab size ascending.
func buildBySize(sizeFiles map[int]int) []SizeBucket {
	if len(sizeFiles) == 0 {
		return nil
	}
	result := make([]SizeBucket, 0, len(sizeFiles))
	for size, files := range sizeFiles {
		result = append(result, SizeBucket{Size: size, Files: files})
	}
	slices.SortFunc(result, func(left, right SizeBucket) int {
		return cmp.Compare(left.Size, right.Size)
	})
	return result
}

func sortMixedFiles(files []MixedFile, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right MixedFile) int {
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Path, right.Path)
		default: // SortByCount
			result := cmp.Compare(left.MixedLines, right.MixedLines)
			if desc {
				result = -result
			}
			if result == 0 {
				result = cmp.Compare(left.Path, right.Path)
			}
			return result
		}
	})
}
