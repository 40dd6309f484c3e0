package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/retab/pkg/config"
	"github.com/yaklabco/retab/pkg/reindent"
)

func newConvertCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert indentation between tabs and spaces",
		Long:  convertLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, args, reindent.OpConvert, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.use, "use", "u", "", "target style: tabs or spaces")
	addRunFlags(cmd, &cfg, flags)

	return cmd
}

const convertLongDescription = `Convert the leading whitespace of source files between tabs and spaces.

Alignment is preserved: each line's indentation is measured in columns
and rewritten in the target style at the same visual depth. Content
after the indentation is never touched.

By default, processes every recognized file under the current directory
and reports files needing changes without writing. Specify paths to
process specific files or directories.

Examples:
  retab convert --use tabs              # Check current directory
  retab convert --use spaces --write    # Rewrite files in place
  retab convert --use spaces --tab-size 2 src/
  retab convert --use tabs --diff       # Show diffs without writing
  retab convert --use tabs --format json`
