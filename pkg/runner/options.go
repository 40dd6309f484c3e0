// Package runner provides multi-file orchestration: discovery of
// candidate files and concurrent processing through a reindent.Pipeline.
package runner

import (
	"slices"

	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/reindent"
)

// Options controls multi-file processing behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading
	// dot) eligible for processing. Empty derives the set from the
	// builtin language registry via DefaultExtensions().
	Extensions []string

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// These merge ignore rules from config and CLI (e.g. --ignore).
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Op selects conversion or strict re-indentation.
	Op reindent.Operation

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the extensions claimed by the builtin
// language registry.
func DefaultExtensions() []string {
	return language.DefaultRegistry.Extensions()
}

// ExtensionsFor returns the full extension set a pipeline can handle:
// the extensions of its language registry plus those claimed by custom
// planners, sorted without duplicates.
func ExtensionsFor(p *reindent.Pipeline) []string {
	exts := p.Registry().Extensions()
	exts = append(exts, p.PlannerExtensions()...)
	slices.Sort(exts)
	return slices.Compact(exts)
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
