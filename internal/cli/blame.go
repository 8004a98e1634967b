package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newBlameCmd creates the blame command
func newBlameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blame <path>",
		Short: "Attribute each line of a file to a commit",
		Long: `Run git blame for a path relative to the repository directory.

Files that are not in HEAD yet are attributed to the working tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.BlameResult, error) {
				return actions.BlameAction(ctx, helpers.Dir(cmd), args[0])
			})
		},
	}
}

// newIgnoreCmd creates the ignore command
func newIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <path>",
		Short: "Add a path to .gitignore",
		Long: `Append a repository-relative path to the .gitignore at the repository root.
Directories get a trailing slash. Paths already listed are not added twice.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.IgnoreResult, error) {
				return actions.IgnoreAction(ctx, helpers.Dir(cmd), args[0])
			})
		},
	}
}
