package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/reindent"
)

func newReindentCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "reindent [paths...]",
		Short: "Re-indent files to their rule-computed nesting depth",
		Long:  reindentLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, args, reindent.OpReindent, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "pin the language instead of per-file detection")
	addRunFlags(cmd, &cfg, flags)

	return cmd
}

const reindentLongDescription = `Re-indent source files so every line sits at the nesting depth computed
from its language's indentation rules.

The language is detected per file from its name and content; --language
pins it for every file instead. Files whose language cannot be detected
are skipped. Lines inside multiline strings and lines whose depth the
rules cannot establish are left untouched and reported.

Examples:
  retab reindent                        # Check current directory
  retab reindent --write src/           # Rewrite files in place
  retab reindent --language lua init.conf
  retab reindent --strict               # Skipped files fail the run`
