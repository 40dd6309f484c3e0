package reindent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/fsutil"
	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/langdetect"
	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/textdoc"
)

// DefaultMaxPasses is the maximum number of edit passes per file. Both
// operations reach their fixpoint on the second pass in practice; the cap
// guards against a pathological language configuration that keeps
// producing edits.
const DefaultMaxPasses = 10

// DefaultMaxFileSize is the size cap for files read by the pipeline.
const DefaultMaxFileSize = 10 << 20 // 10 MiB

// binarySniffLen is how many leading bytes are scanned for a NUL byte.
const binarySniffLen = 8000

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFileTooLarge indicates the file exceeds the size cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrBinaryFile indicates the file does not look like text.
	ErrBinaryFile = errors.New("binary file")

	// ErrUnknownLanguage indicates a pinned language id is not registered.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Operation selects what the pipeline does to each file.
type Operation string

const (
	// OpConvert rewrites leading whitespace to the target style,
	// preserving rendered width. Works on any text file.
	OpConvert Operation = "convert"

	// OpReindent normalizes every line to its rule-computed nesting
	// level. Requires a language with indentation rules.
	OpReindent Operation = "reindent"
)

// PlanRequest carries the resolved settings a planner needs to compute
// one pass of edits over a document.
type PlanRequest struct {
	// Op is the requested operation.
	Op Operation

	// Style and TabSize are the target rendering settings. TabSize is
	// already resolved; auto-guessing happens before planning.
	Style   indent.Style
	TabSize int

	// Language is the resolved language, nil when none was detected or
	// when a custom planner owns resolution.
	Language *language.Language

	// Registry is the language registry in effect for this run.
	Registry *language.Registry
}

// Planner computes the edit batch for one pass over a document. Custom
// planners own formats whose files embed other languages (markdown
// fences); the pipeline's built-in planner handles plain source files.
type Planner func(doc *textdoc.Document, req PlanRequest) (*Outcome, error)

// LanguagePolicy overrides the run-level style or width for files of
// one language (a Makefile stays tabs regardless of the global style).
type LanguagePolicy struct {
	// Style replaces the target style when StyleSet is true.
	Style    indent.Style
	StyleSet bool

	// TabSize replaces the tab stop width when positive.
	TabSize int
}

// PipelineOptions controls pipeline behavior for one run.
type PipelineOptions struct {
	// Op selects conversion or strict re-indentation.
	Op Operation

	// Style is the target indentation style.
	Style indent.Style

	// TabSize is the tab stop width. Zero guesses per file from content.
	TabSize int

	// Language pins every file to one language id instead of per-file
	// detection. Empty means detect.
	Language string

	// Languages carries per-language policy overrides, keyed by
	// lowercase language id.
	Languages map[string]LanguagePolicy

	// Write applies changes to disk. When false the pipeline only
	// computes them.
	Write bool

	// Diff generates a unified diff instead of writing.
	Diff bool

	// TrimTrailing strips trailing whitespace from every line.
	TrimTrailing bool

	// FinalNewline makes content end with exactly one line terminator.
	FinalNewline bool

	// Backup configures backup behavior before writes.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification
	// detection. When false, only mod time and size are checked.
	StrictRaceDetection bool

	// MaxFileSize caps how large a file the pipeline reads.
	// Zero means DefaultMaxFileSize.
	MaxFileSize int64

	// MaxPasses limits edit iterations. Zero means DefaultMaxPasses.
	MaxPasses int
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Op:                  OpConvert,
		Style:               indent.Tabs,
		TabSize:             indent.DefaultTabSize,
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// settingsFor resolves the effective style and tab size for one file:
// per-language policy first, then the run-level options, guessing the
// width from content when it is still unresolved.
func (o PipelineOptions) settingsFor(langID string, content []byte) (indent.Style, int) {
	style, tabSize := o.Style, o.TabSize

	if langID != "" {
		if pol, ok := o.Languages[strings.ToLower(langID)]; ok {
			if pol.StyleSet {
				style = pol.Style
			}
			if pol.TabSize > 0 {
				tabSize = pol.TabSize
			}
		}
	}

	if tabSize == 0 {
		tabSize = indent.GuessIndentation(content).TabSize
	}
	return style, tabSize
}

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// Path is the file path that was processed.
	Path string

	// Snapshot is the file state at read time (nil for in-memory runs).
	Snapshot *fsutil.Snapshot

	// Language is the resolved language id, empty when none.
	Language string

	// TabSize is the effective tab size after auto-guessing.
	TabSize int

	// Changed is true if the computed content differs from the original.
	Changed bool

	// ModifiedContent is the new content (nil when not changed).
	ModifiedContent []byte

	// Diff is the unified diff (nil unless diff mode).
	Diff *textdoc.Diff

	// LinesChanged counts lines whose whitespace was rewritten, across
	// all passes.
	LinesChanged int

	// Passes is the number of edit passes that produced edits.
	Passes int

	// SkippedLines lists lines the engine refused to evaluate.
	SkippedLines []SkippedLine

	// Skipped is true if the whole file was skipped.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.Written {
		if pr.BackupCreated {
			return "rewritten (backup created)"
		}
		return "rewritten"
	}
	if pr.Changed {
		return "needs changes"
	}
	return "ok"
}

// Pipeline orchestrates the safe processing of single files.
type Pipeline struct {
	registry *language.Registry
	planners map[string]Planner // keyed by lowercase file extension
}

// NewPipeline creates a pipeline resolving languages against the given
// registry. A nil registry selects the builtin default.
func NewPipeline(registry *language.Registry) *Pipeline {
	if registry == nil {
		registry = language.DefaultRegistry
	}
	return &Pipeline{
		registry: registry,
		planners: make(map[string]Planner),
	}
}

// Registry returns the language registry the pipeline resolves against.
func (p *Pipeline) Registry() *language.Registry {
	return p.registry
}

// RegisterPlanner installs a custom planner for a file extension
// (".md"). Extensions are matched case-insensitively.
func (p *Pipeline) RegisterPlanner(ext string, fn Planner) {
	p.planners[strings.ToLower(ext)] = fn
}

// PlannerExtensions returns the extensions claimed by custom planners.
func (p *Pipeline) PlannerExtensions() []string {
	out := make([]string, 0, len(p.planners))
	for ext := range p.planners {
		out = append(out, ext)
	}
	return out
}

// ProcessFile runs the full pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file (size cap, binary detection).
//  2. Resolve the effective tab size and the file's language.
//  3. Edit loop: compute the pass's edits, apply them in memory, repeat
//     until a pass produces none or the cap is reached.
//  4. Apply the trailing-whitespace and final-newline passes.
//  5. Short-circuit when nothing changed.
//  6. Generate a diff (diff mode) instead of writing.
//  7. Check for concurrent modifications.
//  8. Create a backup (if enabled) and write atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	// Step 1: Read and snapshot the original file.
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if stat, err := os.Stat(path); err == nil && stat.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, path, stat.Size())
	}

	originalContent, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}
	if isBinary(originalContent) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}

	result, err := p.process(ctx, path, originalContent, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	if !result.Changed || result.Skipped {
		return result, nil
	}

	// Step 6: Diff mode never writes.
	if opts.Diff {
		result.Diff = textdoc.GenerateDiff(path, originalContent, result.ModifiedContent)
	}
	if !opts.Write {
		return result, nil
	}

	// Step 7: Check for concurrent modifications before writing.
	modified, err := p.checkModified(ctx, snap, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	// Step 8: Backup, then write atomically.
	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent processes in-memory content without file I/O.
// This is useful for testing or when content is already loaded.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, originalContent []byte, opts PipelineOptions) (*PipelineResult, error) {
	if isBinary(originalContent) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}

	result, err := p.process(ctx, path, originalContent, opts)
	if err != nil {
		return nil, err
	}

	if result.Changed && opts.Diff {
		result.Diff = textdoc.GenerateDiff(path, originalContent, result.ModifiedContent)
	}
	return result, nil
}

// process runs the in-memory part of the pipeline: settings resolution,
// the edit loop, and the whitespace cleanup passes.
func (p *Pipeline) process(ctx context.Context, path string, originalContent []byte, opts PipelineOptions) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	// Step 2: Resolve the file's language, then the effective settings.
	// Language comes first so per-language policy can pin the style.
	planner := p.plannerFor(path)
	var lang *language.Language

	if planner == nil {
		resolved, skip, err := p.resolveLanguage(path, originalContent, opts)
		if err != nil {
			return nil, err
		}
		if skip != "" {
			result.Skipped = true
			result.SkipReason = skip
			return result, nil
		}
		lang = resolved
		if lang != nil {
			result.Language = lang.ID()
		}
		planner = defaultPlanner
	}

	style, tabSize := opts.settingsFor(result.Language, originalContent)
	result.TabSize = tabSize

	req := PlanRequest{
		Op:       opts.Op,
		Style:    style,
		TabSize:  tabSize,
		Language: lang,
		Registry: p.registry,
	}

	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	// Step 3: Edit loop until fixpoint.
	content := originalContent
	for range maxPasses {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
		default:
		}

		doc := textdoc.NewDocument(path, content)
		outcome, err := planner(doc, req)
		if err != nil {
			return nil, err
		}

		if outcome.Status == StatusPassThrough {
			result.Skipped = true
			result.SkipReason = skipReason(outcome.Reason)
			return result, nil
		}
		result.SkippedLines = outcome.Skipped

		if !outcome.HasEdits() {
			break
		}

		content, err = doc.ApplyEdits(outcome.Edits)
		if err != nil {
			return nil, fmt.Errorf("apply edits: %w", err)
		}
		result.Passes++
		result.LinesChanged += len(outcome.Edits)
		result.Changed = true
	}

	// Step 4: Whitespace cleanup passes.
	if opts.TrimTrailing {
		trimmed, lines := trimTrailingWhitespace(content)
		if lines > 0 {
			content = trimmed
			result.LinesChanged += lines
			result.Changed = true
		}
	}
	if opts.FinalNewline {
		fixed, changed := normalizeFinalNewline(content)
		if changed {
			content = fixed
			result.Changed = true
		}
	}

	// Step 5: Short-circuit when clean.
	if result.Changed {
		result.ModifiedContent = content
	}
	return result, nil
}

// plannerFor returns the custom planner claiming the path's extension.
func (p *Pipeline) plannerFor(path string) Planner {
	if len(p.planners) == 0 {
		return nil
	}
	return p.planners[strings.ToLower(filepath.Ext(path))]
}

// resolveLanguage resolves the language for one file: the pinned id when
// set, per-file detection otherwise. The skip return carries the reason
// when re-indentation has no language to work with.
func (p *Pipeline) resolveLanguage(path string, content []byte, opts PipelineOptions) (lang *language.Language, skip string, err error) {
	if opts.Language != "" {
		lang, ok := p.registry.Lookup(opts.Language)
		if !ok {
			return nil, "", fmt.Errorf("%w: %q", ErrUnknownLanguage, opts.Language)
		}
		return lang, "", nil
	}

	lang, ok := langdetect.DetectFile(p.registry, path, content)
	if !ok && opts.Op == OpReindent {
		return nil, "language not detected", nil
	}
	return lang, "", nil
}

// defaultPlanner computes one pass of edits for a plain source file.
func defaultPlanner(doc *textdoc.Document, req PlanRequest) (*Outcome, error) {
	rng := fullRange(doc)
	if req.Op == OpReindent {
		return ReindentLines(doc, rng, req.Language, Options{Style: req.Style, TabSize: req.TabSize})
	}
	return ConvertIndentation(doc, rng, req.Style, req.TabSize)
}

// fullRange returns the range spanning the whole document.
func fullRange(doc *textdoc.Document) textdoc.Range {
	last := doc.LineCount()
	return textdoc.Range{
		Start: textdoc.Position{Line: 1, Column: 1},
		End:   textdoc.Position{Line: last, Column: len(doc.Line(last)) + 1},
	}
}

// skipReason renders a pass-through reason for the result.
func skipReason(reason error) string {
	if reason == nil {
		return "nothing to do"
	}
	if errors.Is(reason, ErrMissingConfiguration) {
		return "no indentation rules for language"
	}
	return reason.Error()
}

// checkModified checks if a file has been modified since it was read.
func (p *Pipeline) checkModified(ctx context.Context, snap *fsutil.Snapshot, strict bool) (bool, error) {
	var modified bool
	var err error

	if strict {
		modified, err = fsutil.Modified(ctx, snap)
	} else {
		modified, err = fsutil.ModifiedQuick(ctx, snap)
	}

	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// isBinary reports whether content looks like binary data: a NUL byte in
// the leading window, the same test git uses.
func isBinary(content []byte) bool {
	window := content
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}
	return bytes.IndexByte(window, 0) >= 0
}

// trimTrailingWhitespace strips trailing tabs and spaces from every line,
// preserving line terminators, and reports how many lines changed.
func trimTrailingWhitespace(content []byte) ([]byte, int) {
	if len(content) == 0 {
		return content, 0
	}

	var out bytes.Buffer
	out.Grow(len(content))
	changed := 0

	for line := range bytes.Lines(content) {
		body, terminator := splitLineEnd(line)
		trimmed := bytes.TrimRight(body, " \t")
		if len(trimmed) != len(body) {
			changed++
		}
		out.Write(trimmed)
		out.Write(terminator)
	}

	if changed == 0 {
		return content, 0
	}
	return out.Bytes(), changed
}

// normalizeFinalNewline makes content end with exactly one line
// terminator, matching the file's dominant ending. Empty content stays
// empty.
func normalizeFinalNewline(content []byte) ([]byte, bool) {
	if len(bytes.TrimRight(content, "\r\n")) == 0 && len(content) <= 2 {
		// Nothing but a terminator (or empty): leave as-is.
		return content, false
	}

	terminator := []byte("\n")
	if bytes.Contains(content, []byte("\r\n")) {
		terminator = []byte("\r\n")
	}

	trimmed := bytes.TrimRight(content, "\r\n")
	if len(content) == len(trimmed)+len(terminator) && bytes.HasSuffix(content, terminator) {
		return content, false
	}

	out := make([]byte, 0, len(trimmed)+len(terminator))
	out = append(out, trimmed...)
	out = append(out, terminator...)
	return out, true
}

// splitLineEnd separates a line from its terminator.
func splitLineEnd(line []byte) (body, terminator []byte) {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		if n > 1 && line[n-2] == '\r' {
			return line[:n-2], line[n-2:]
		}
		return line[:n-1], line[n-1:]
	}
	return line, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
// It uses errors.Is for robust error detection rather than string matching.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrBinaryFile) ||
		errors.Is(err, ErrUnknownLanguage) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.BackupsEnabled(),
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config, op Operation) (PipelineOptions, error) {
	if cfg == nil {
		return DefaultPipelineOptions(), nil
	}

	style, err := cfg.IndentStyle()
	if err != nil {
		return PipelineOptions{}, err
	}

	policies, err := languagePolicies(cfg)
	if err != nil {
		return PipelineOptions{}, err
	}

	return PipelineOptions{
		Op:                  op,
		Style:               style,
		TabSize:             cfg.TabSize,
		Language:            cfg.Language,
		Languages:           policies,
		Write:               cfg.Write,
		Diff:                cfg.Diff,
		TrimTrailing:        cfg.TrimTrailing,
		FinalNewline:        cfg.FinalNewline,
		Backup:              BackupConfigFromConfig(cfg),
		StrictRaceDetection: true,
	}, nil
}

// languagePolicies extracts per-language style and width overrides from
// the config's language sections.
func languagePolicies(cfg *config.Config) (map[string]LanguagePolicy, error) {
	var policies map[string]LanguagePolicy

	for id, ov := range cfg.Languages {
		var pol LanguagePolicy
		if ov.Style != "" {
			st, err := indent.ParseStyle(ov.Style)
			if err != nil {
				return nil, fmt.Errorf("language %s: %w", id, err)
			}
			pol.Style, pol.StyleSet = st, true
		}
		if ov.TabSize != 0 {
			if err := indent.ValidateTabSize(ov.TabSize); err != nil {
				return nil, fmt.Errorf("language %s: %w", id, err)
			}
			pol.TabSize = ov.TabSize
		}
		if pol.StyleSet || pol.TabSize > 0 {
			if policies == nil {
				policies = make(map[string]LanguagePolicy)
			}
			policies[strings.ToLower(id)] = pol
		}
	}

	return policies, nil
}
