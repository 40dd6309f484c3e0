package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/retab/internal/configloader"
	"github.com/yaklabco/retab/internal/logging"
	"github.com/yaklabco/retab/internal/ui/pretty"
	"github.com/yaklabco/retab/pkg/analysis"
	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/markdown"
	"github.com/yaklabco/retab/pkg/reindent"
	"github.com/yaklabco/retab/pkg/runner"
)

type analyzeFlags struct {
	format string
	files  bool
	sortBy string
	jobs   int
	ignore []string
}

func newAnalyzeCommand() *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Survey the indentation of a file set",
		Long: `Infer each file's indentation style and tab size, then aggregate the
guesses: files per style, a tab-size histogram for space-indented files,
and the files whose lines mix tabs with spaces.

Examples:
  retab analyze                  # Survey current directory
  retab analyze src/ docs/       # Survey specific directories
  retab analyze --files          # Include the per-file breakdown
  retab analyze --format json    # Machine-readable report
  retab analyze --sort alpha     # Order mixed files by path`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.files, "files", false, "include the per-file breakdown")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "count", "mixed-file order: count, alpha")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, flags *analyzeFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return fmt.Errorf("%w: invalid sort %q (expected count or alpha)", ErrUsage, flags.sortBy)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Config supplies ignore globs, job counts, and language definitions.
	cliCfg := &config.Config{Jobs: flags.jobs, Ignore: flags.ignore}
	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return errors.Join(ErrConfigLoad, err)
	}
	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	registry, err := finalCfg.Registry()
	if err != nil {
		return errors.Join(ErrConfigLoad, err)
	}

	// The Markdown planner widens the extension set the same way a run
	// would, so the survey covers the same files.
	pipe := reindent.NewPipeline(registry)
	markdown.Register(pipe)

	files, err := runner.Discover(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.ExtensionsFor(pipe),
		ExcludeGlobs: finalCfg.Ignore,
	})
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	logger.Debug("analyzing files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldWorkingDir, workDir,
	)

	opts := analysis.Options{
		IncludeFiles: flags.files,
		SortBy:       sortBy,
		SortDesc:     sortBy == analysis.SortByCount,
		Jobs:         finalCfg.Jobs,
		WorkingDir:   workDir,
	}

	samples, err := analysis.Collect(ctx, registry, files, opts)
	if err != nil {
		return fmt.Errorf("collect samples: %w", err)
	}

	report := analysis.Analyze(samples, opts)

	if flags.format == formatJSON {
		return outputAnalysisJSON(cmd.OutOrStdout(), report)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
	if _, err := io.WriteString(cmd.OutOrStdout(), styles.FormatAnalysis(report)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// outputAnalysisJSON writes the report as indented JSON.
func outputAnalysisJSON(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
