package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/reindent"
)

func TestAnalyze_EmptySamples(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.Equal(t, 0, report.Totals.Files)
	assert.Empty(t, report.Files)
	assert.Empty(t, report.BySize)
	assert.Empty(t, report.Mixed)
}

func TestAnalyze_CountsTotals(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{
			Path:     "main.go",
			Language: "go",
			Guess:    indent.Guess{Style: indent.Tabs, TabSize: 4, TabLines: 12, Indented: 12, Confident: true},
		},
		{
			Path:     "app.py",
			Language: "python",
			Guess:    indent.Guess{Style: indent.Spaces, TabSize: 4, SpaceLines: 30, Indented: 30, Confident: true},
		},
		{
			Path:     "style.css",
			Language: "css",
			Guess:    indent.Guess{Style: indent.Spaces, TabSize: 2, SpaceLines: 8, Indented: 8, Confident: true},
		},
		{
			Path:  "README",
			Guess: indent.Guess{Style: indent.Tabs, TabSize: 4},
		},
	}

	report := Analyze(samples, DefaultOptions())

	assert.Equal(t, 4, report.Totals.Files)
	assert.Equal(t, 4, report.Totals.Analyzed)
	assert.Equal(t, 1, report.Totals.TabFiles)
	assert.Equal(t, 2, report.Totals.SpaceFiles)
	assert.Equal(t, 1, report.Totals.Undecided)
	assert.Equal(t, 0, report.Totals.Errored)
	assert.Len(t, report.Files, 4)
}

func TestAnalyze_SizeHistogram(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Path: "a.py", Guess: indent.Guess{Style: indent.Spaces, TabSize: 4, SpaceLines: 5, Indented: 5, Confident: true}},
		{Path: "b.py", Guess: indent.Guess{Style: indent.Spaces, TabSize: 4, SpaceLines: 5, Indented: 5, Confident: true}},
		{Path: "c.css", Guess: indent.Guess{Style: indent.Spaces, TabSize: 2, SpaceLines: 5, Indented: 5, Confident: true}},
		{Path: "d.go", Guess: indent.Guess{Style: indent.Tabs, TabSize: 4, TabLines: 5, Indented: 5, Confident: true}},
	}

	report := Analyze(samples, DefaultOptions())

	// Tab files do not enter the histogram; buckets sort by size ascending.
	require.Len(t, report.BySize, 2)
	assert.Equal(t, SizeBucket{Size: 2, Files: 1}, report.BySize[0])
	assert.Equal(t, SizeBucket{Size: 4, Files: 2}, report.BySize[1])
}

func TestAnalyze_MixedFilesSortedByCount(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Path: "low.rb", Guess: indent.Guess{Style: indent.Tabs, TabSize: 4, TabLines: 4, MixedLines: 1, Indented: 4, Confident: true}},
		{Path: "high.rb", Guess: indent.Guess{Style: indent.Tabs, TabSize: 4, TabLines: 9, MixedLines: 7, Indented: 9, Confident: true}},
		{Path: "clean.rb", Guess: indent.Guess{Style: indent.Spaces, TabSize: 2, SpaceLines: 3, Indented: 3, Confident: true}},
	}

	report := Analyze(samples, DefaultOptions())

	assert.Equal(t, 2, report.Totals.MixedFiles)
	assert.Equal(t, 8, report.Totals.MixedLines)

	// Sorted by mixed-line count descending.
	require.Len(t, report.Mixed, 2)
	assert.Equal(t, "high.rb", report.Mixed[0].Path)
	assert.Equal(t, 7, report.Mixed[0].MixedLines)
	assert.Equal(t, "low.rb", report.Mixed[1].Path)
}

func TestAnalyze_SortByAlpha(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Path: "z.rb", Guess: indent.Guess{Style: indent.Tabs, TabSize: 4, TabLines: 2, MixedLines: 2, Indented: 2, Confident: true}},
		{Path: "a.rb", Guess: indent.Guess{Style: indent.Tabs, TabSize: 4, TabLines: 1, MixedLines: 1, Indented: 1, Confident: true}},
	}

	opts := DefaultOptions()
	opts.SortBy = SortByAlpha

	report := Analyze(samples, opts)

	require.Len(t, report.Mixed, 2)
	assert.Equal(t, "a.rb", report.Mixed[0].Path)
	assert.Equal(t, "z.rb", report.Mixed[1].Path)
}

func TestAnalyze_ExcludeFiles(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Path: "a.py", Guess: indent.Guess{Style: indent.Spaces, TabSize: 4, SpaceLines: 5, Indented: 5, Confident: true}},
	}

	opts := Options{
		IncludeFiles: false,
		SortBy:       SortByCount,
		SortDesc:     true,
	}

	report := Analyze(samples, opts)

	assert.Empty(t, report.Files, "per-file list should be excluded")
	assert.Equal(t, 1, report.Totals.SpaceFiles, "totals always computed")
	assert.NotEmpty(t, report.BySize, "histogram always computed")
}

func TestAnalyze_ErroredSamples(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Path: "bad.py", Err: errors.New("permission denied")},
		{Path: "good.py", Guess: indent.Guess{Style: indent.Spaces, TabSize: 4, SpaceLines: 5, Indented: 5, Confident: true}},
	}

	report := Analyze(samples, DefaultOptions())

	assert.Equal(t, 2, report.Totals.Files)
	assert.Equal(t, 1, report.Totals.Analyzed)
	assert.Equal(t, 1, report.Totals.Errored)

	require.Len(t, report.Files, 2)
	assert.Equal(t, "permission denied", report.Files[0].Error)
	assert.Empty(t, report.Files[0].Style)
}

func TestAnalyze_RelativePaths(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{Path: "/work/src/app.py", Guess: indent.Guess{Style: indent.Spaces, TabSize: 4, SpaceLines: 5, Indented: 5, Confident: true}},
	}

	opts := DefaultOptions()
	opts.WorkingDir = "/work"

	report := Analyze(samples, opts)

	require.Len(t, report.Files, 1)
	assert.Equal(t, filepath.Join("src", "app.py"), report.Files[0].Path)
}

func TestCollect_ReadsAndGuesses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"main.go":   "func main() {\n\trun()\n}\n",
		"app.py":    "def f():\n    return 1\n",
		"style.css": "a {\n  color: red;\n}\n",
	}
	paths := make([]string, 0, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	// Fixed input order, independent of map iteration.
	for _, name := range []string{"main.go", "app.py", "style.css"} {
		paths = append(paths, filepath.Join(dir, name))
	}

	samples, err := Collect(context.Background(), nil, paths, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, samples, 3)

	// Samples come back in input order.
	assert.Equal(t, paths[0], samples[0].Path)
	assert.Equal(t, "go", samples[0].Language)
	assert.Equal(t, indent.Tabs, samples[0].Guess.Style)
	assert.True(t, samples[0].Guess.Confident)

	assert.Equal(t, "python", samples[1].Language)
	assert.Equal(t, indent.Spaces, samples[1].Guess.Style)
	assert.Equal(t, 4, samples[1].Guess.TabSize)

	assert.Equal(t, "css", samples[2].Language)
	assert.Equal(t, indent.Spaces, samples[2].Guess.Style)
	assert.Equal(t, 2, samples[2].Guess.TabSize)
}

func TestCollect_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	binPath := filepath.Join(dir, "blob.py")
	require.NoError(t, os.WriteFile(binPath, []byte("data\x00data"), 0o644))

	paths := []string{
		filepath.Join(dir, "missing.py"),
		binPath,
	}

	samples, err := Collect(context.Background(), nil, paths, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Error(t, samples[0].Err)
	require.Error(t, samples[1].Err)
	assert.ErrorIs(t, samples[1].Err, reindent.ErrBinaryFile)

	report := Analyze(samples, DefaultOptions())
	assert.Equal(t, 2, report.Totals.Errored)
	assert.True(t, report.Totals.HasErrors())
}

func TestCollect_EmptyInput(t *testing.T) {
	t.Parallel()

	samples, err := Collect(context.Background(), nil, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestCollect_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for i := range 50 {
		path := filepath.Join(dir, "file"+string(rune('a'+i%26))+".py")
		_ = os.WriteFile(path, []byte("def f():\n    pass\n"), 0o644)
		paths = append(paths, path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, nil, paths, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_SizeCap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "big.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n    return 1\n"), 0o644))

	opts := DefaultOptions()
	opts.MaxFileSize = 4

	samples, err := Collect(context.Background(), nil, []string{path}, opts)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.ErrorIs(t, samples[0].Err, reindent.ErrFileTooLarge)
}
