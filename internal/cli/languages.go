package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/retab/internal/configloader"
	"github.com/yaklabco/retab/internal/logging"
	"github.com/yaklabco/retab/pkg/language"
)

type languagesFlags struct {
	format string
}

const formatJSON = "json"

// languageInfo represents a language in JSON output.
type languageInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	Signals    string   `json:"signals"`
	HasRules   bool     `json:"hasIndentRules"`
}

func newLanguagesCommand() *cobra.Command {
	flags := &languagesFlags{}

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Long: `List registered languages with their aliases, file extensions, and
which indentation signals each defines. Languages defined or adjusted
in the configuration file are included.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLanguages(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

func runLanguages(cmd *cobra.Command, flags *languagesFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Load config so user-defined languages and overrides show up.
	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
	})
	if err != nil {
		return errors.Join(ErrConfigLoad, err)
	}

	registry, err := loadResult.Config.Registry()
	if err != nil {
		return errors.Join(ErrConfigLoad, err)
	}

	langs := registry.Languages()

	// Handle JSON output format.
	if flags.format == formatJSON {
		return outputLanguagesJSON(cmd.OutOrStdout(), langs)
	}

	// Default to text output.
	logger := logging.NewInteractive()

	logger.Info("supported languages")

	for _, lang := range langs {
		logger.Info(lang.ID(),
			logging.FieldName, lang.Name(),
			logging.FieldExtensions, strings.Join(lang.Extensions(), ","),
			logging.FieldPatterns, indentSignals(lang),
		)
	}

	return nil
}

// indentSignals names the indentation signals a language defines.
func indentSignals(lang *language.Language) string {
	cfg := lang.Config()

	patterns := cfg.Indent
	if patterns.Empty() {
		if len(cfg.Brackets) > 0 {
			return "brackets"
		}
		return "none"
	}

	var parts []string
	if patterns.Increase != "" {
		parts = append(parts, "increase")
	}
	if patterns.Decrease != "" {
		parts = append(parts, "decrease")
	}
	if patterns.IndentNextLine != "" {
		parts = append(parts, "indent-next-line")
	}
	if patterns.Unindented != "" {
		parts = append(parts, "unindented")
	}
	return strings.Join(parts, ",")
}

// outputLanguagesJSON outputs languages as a JSON array.
func outputLanguagesJSON(w io.Writer, langs []*language.Language) error {
	infos := make([]languageInfo, 0, len(langs))
	for _, lang := range langs {
		infos = append(infos, languageInfo{
			ID:         lang.ID(),
			Name:       lang.Name(),
			Aliases:    lang.Aliases(),
			Extensions: lang.Extensions(),
			Signals:    indentSignals(lang),
			HasRules:   lang.HasIndentRules(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding languages: %w", err)
	}
	return nil
}
