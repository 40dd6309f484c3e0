package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover resolves opts.Paths to the sorted set of absolute file paths
// eligible for processing. Directories are walked recursively; explicitly
// named files still pass through the extension and glob filters.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	exts := extensionSet(opts.effectiveExtensions())

	// The same file can be reached through several input paths.
	seen := make(map[string]struct{})
	var files []string
	add := func(paths ...string) {
		for _, p := range paths {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				files = append(files, p)
			}
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			found, err := walkTree(ctx, absPath, workDir, exts, opts)
			if err != nil {
				return nil, err
			}
			add(found...)
		} else if selectFile(absPath, workDir, exts, opts) {
			add(absPath)
		}
	}

	slices.Sort(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walkTree walks root collecting files that pass selectFile. Hidden
// entries are skipped, excluded directories are pruned, and directory
// symlinks are only followed when opts.FollowSymlinks is set.
func walkTree(ctx context.Context, root, workDir string, exts map[string]struct{}, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			// Unreadable entries are skipped, not fatal.
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := relativeTo(workDir, path)

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if matchesAny(relPath, opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				// Broken link.
				return nil //nolint:nilerr // intentionally skipped
			}
			info, statErr := os.Stat(target)
			if statErr != nil {
				return nil //nolint:nilerr // unreadable target, skip
			}
			if info.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				// Recurse into the target path, not the link: WalkDir
				// lstats its entries and would not descend through it.
				sub, subErr := walkTree(ctx, target, workDir, exts, opts)
				if subErr != nil {
					return subErr
				}
				files = append(files, sub...)
				return nil
			}
			// A file link goes through the normal filters below.
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if selectFile(path, workDir, exts, opts) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// selectFile reports whether a file passes the extension and glob filters.
func selectFile(path, workDir string, exts map[string]struct{}, opts Options) bool {
	if _, ok := exts[strings.ToLower(filepath.Ext(path))]; !ok {
		return false
	}

	relPath := relativeTo(workDir, path)

	if matchesAny(relPath, opts.ExcludeGlobs) {
		return false
	}
	if len(opts.IncludeGlobs) > 0 && !matchesAny(relPath, opts.IncludeGlobs) {
		return false
	}

	return true
}

// extensionSet lowercases extensions into a lookup set.
func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

// relativeTo returns path relative to base, or path unchanged when no
// relative form exists.
func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

// matchesAny reports whether relPath matches any of the glob patterns.
func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if globMatch(relPath, pattern) {
			return true
		}
	}
	return false
}

// globMatch matches a slash-normalized relative path against a glob
// pattern. Beyond filepath.Match it understands "**" in the usual
// shapes: "dir/**" (everything under dir), "**/name" (name anywhere),
// and "prefix/**/suffix".
func globMatch(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return doubleStarMatch(path, pattern)
	}

	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}

	// A bare pattern like "*.min.js" also matches by filename alone.
	ok, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// doubleStarMatch handles the "**" glob forms.
func doubleStarMatch(path, pattern string) bool {
	parts := strings.Split(pattern, "**")

	if len(parts) == 1 {
		ok, err := filepath.Match(pattern, path)
		return err == nil && ok
	}

	// "**/name": match name as a suffix, a path component, or a subpath.
	if parts[0] == "" && len(parts) == 2 {
		suffix := strings.TrimPrefix(parts[1], "/")
		if suffix == "" {
			// Bare "**" matches everything.
			return true
		}

		if strings.HasSuffix(path, suffix) {
			return true
		}

		for _, component := range strings.Split(path, "/") {
			if ok, err := filepath.Match(suffix, component); err == nil && ok {
				return true
			}
		}

		return strings.Contains(path, suffix)
	}

	// "dir/**": the directory itself and everything under it.
	if parts[1] == "" || parts[1] == "/" {
		prefix := strings.TrimSuffix(parts[0], "/")
		if prefix == "" {
			return true
		}
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}

	// "prefix/**/suffix": both ends anchored, anything between.
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix != "" && !strings.HasPrefix(path, prefix) {
		return false
	}
	if suffix != "" && !strings.HasSuffix(path, suffix) {
		ok, err := filepath.Match(suffix, filepath.Base(path))
		if err != nil || !ok {
			return false
		}
	}

	return true
}
