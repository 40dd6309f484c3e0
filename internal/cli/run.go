package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/retab/internal/configloader"
	"github.com/yaklabco/retab/internal/logging"
	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/markdown"
	"github.com/yaklabco/retab/pkg/reindent"
	"github.com/yaklabco/retab/pkg/reporter"
	"github.com/yaklabco/retab/pkg/runner"
)

// runFlags holds the flags shared by the convert and reindent commands.
type runFlags struct {
	use      string
	language string
	tabSize  int
	format   string
	ignore   []string
	verbose  bool
}

// addRunFlags registers the flags common to convert and reindent.
// Booleans bind straight into cfg; string and slice flags go through
// flags so only user-provided values reach the merge.
func addRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "rewrite files in place (default reports only)")
	cmd.Flags().BoolVarP(&cfg.Diff, "diff", "d", false, "print unified diffs instead of writing")
	cmd.Flags().IntVar(&flags.tabSize, "tab-size", 0, "column width of one indentation level (0 = guess per file)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "treat skipped files as failures for exit code")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when writing")
	cmd.Flags().BoolVar(&cfg.FinalNewline, "final-newline", false, "ensure rewritten files end with one newline")
	cmd.Flags().BoolVar(&cfg.TrimTrailing, "trim-trailing", false, "strip trailing whitespace from rewritten lines")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "report clean files and per-line skips")
}

// loadRunConfig resolves the effective configuration for a run, merging
// files, environment, and the CLI layer.
func loadRunConfig(cmd *cobra.Command, cfg *config.Config, flags *runFlags) (*config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	// Map string flags to typed config values. Empty strings mean "not
	// set" to the merge, so only user-provided values take effect.
	if cmd.Flags().Changed("use") {
		cfg.Style = config.Style(flags.use)
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	cfg.Ignore = flags.ignore
	cfg.Language = flags.language

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfigLoad, err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	// A width of zero means "guess per file", which the merge treats as
	// unset, so an explicit --tab-size is applied after the merge.
	if cmd.Flags().Changed("tab-size") {
		finalCfg.TabSize = flags.tabSize
	}

	// --diff selects the diff format unless a format was chosen explicitly,
	// and the diff format needs the engine to record hunks.
	if cfg.Diff && !cmd.Flags().Changed("format") {
		finalCfg.Format = config.FormatDiff
	}
	if finalCfg.Format == config.FormatDiff {
		finalCfg.Diff = true
	}

	logger.Debug("configuration loaded",
		logging.FieldStyle, finalCfg.Style,
		logging.FieldTabSize, finalCfg.TabSize,
		logging.FieldWrite, finalCfg.Write,
		logging.FieldDiff, finalCfg.Diff,
		logging.FieldJobs, finalCfg.Jobs,
	)

	return finalCfg, nil
}

// runOp executes a convert or reindent run over the given paths.
func runOp(cmd *cobra.Command, args []string, op reindent.Operation, cfg *config.Config, flags *runFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	finalCfg, err := loadRunConfig(cmd, cfg, flags)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Registry with config overrides applied.
	registry, err := finalCfg.Registry()
	if err != nil {
		return errors.Join(ErrConfigLoad, err)
	}

	// A pinned language that nothing defines would fail on every file;
	// reject it up front instead.
	if finalCfg.Language != "" {
		if _, ok := registry.Lookup(finalCfg.Language); !ok {
			return fmt.Errorf("%w: unknown language %q", ErrUsage, finalCfg.Language)
		}
	}

	// Pipeline with the Markdown planner for fenced code blocks.
	pipe := reindent.NewPipeline(registry)
	markdown.Register(pipe)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.ExtensionsFor(pipe),
		ExcludeGlobs: finalCfg.Ignore,
		Jobs:         finalCfg.Jobs,
		Op:           op,
		Config:       finalCfg,
	}

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipe).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if err := reportResult(ctx, cmd, finalCfg, workDir, flags, result); err != nil {
		return err
	}

	// Map the run outcome onto an exit-code sentinel.
	switch ExitCodeFromResult(result, finalCfg.Strict, finalCfg.Write) {
	case ExitChangesNeeded:
		return ErrChangesNeeded
	case ExitStrictWarnings:
		return ErrStrictWarnings
	case ExitIOError:
		return fmt.Errorf("%w: %d of %d files failed",
			ErrProcessingFailed, result.Stats.FilesErrored, result.Stats.FilesDiscovered)
	}

	return nil
}

// reportResult renders the run result in the configured format.
func reportResult(ctx context.Context, cmd *cobra.Command, finalCfg *config.Config, workDir string, flags *runFlags, result *runner.Result) error {
	logger := logging.FromContext(ctx)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     flags.verbose,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return nil
}
