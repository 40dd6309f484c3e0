package analysis

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/yaklabco/retab/pkg/fsutil"
	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/langdetect"
	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/reindent"
)

// Sample is one file's raw indentation guess, before aggregation.
type Sample struct {
	// Path is the file path as collected.
	Path string

	// Language is the resolved language id, empty when none.
	Language string

	// Guess is the inferred indentation.
	Guess indent.Guess

	// Err is set when the file could not be read or sampled.
	Err error
}

// binarySniffLen is how many leading bytes are scanned for a NUL byte.
const binarySniffLen = 8000

// workItem pairs a path with its position so results can be reassembled
// in input order.
type workItem struct {
	idx  int
	path string
}

// sampleItem is a worker's result tagged with its input position.
type sampleItem struct {
	idx    int
	sample Sample
}

// Collect reads each file and infers its indentation using a worker
// pool. Samples are returned in input order. A nil registry selects the
// builtin default for language resolution.
func Collect(ctx context.Context, registry *language.Registry, files []string, opts Options) ([]Sample, error) {
	if registry == nil {
		registry = language.DefaultRegistry
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = reindent.DefaultMaxFileSize
	}

	workCh := make(chan workItem)
	outCh := make(chan sampleItem)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				out := sampleItem{idx: item.idx, sample: sampleFile(ctx, registry, item.path, maxSize)}

				select {
				case <-ctx.Done():
					return
				case outCh <- out:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for i, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- workItem{idx: i, path: path}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	samples := make([]Sample, len(files))
	for item := range outCh {
		samples[item.idx] = item.sample
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("collect cancelled: %w", ctx.Err())
	}

	return samples, nil
}

// sampleFile reads one file and guesses its indentation.
func sampleFile(ctx context.Context, registry *language.Registry, path string, maxSize int64) Sample {
	s := Sample{Path: path}

	if stat, err := os.Stat(path); err == nil && stat.Size() > maxSize {
		s.Err = fmt.Errorf("%w: %s (%d bytes)", reindent.ErrFileTooLarge, path, stat.Size())
		return s
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		s.Err = err
		return s
	}
	if looksBinary(content) {
		s.Err = fmt.Errorf("%w: %s", reindent.ErrBinaryFile, path)
		return s
	}

	if lang, ok := langdetect.DetectFile(registry, path, content); ok {
		s.Language = lang.ID()
	}
	s.Guess = indent.GuessIndentation(content)
	return s
}

// looksBinary reports whether content has a NUL byte in its leading
// window, the same test git uses.
func looksBinary(content []byte) bool {
	window := content
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}
	return bytes.IndexByte(window, 0) >= 0
}
