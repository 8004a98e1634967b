package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newUndoCmd creates the undo command
func newUndoCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the last commit, keeping its changes",
		Long: `Move HEAD back one commit. With --mode soft (the default) the changes stay
staged; with --mode mixed they are left in the working tree.

Undo is refused while a merge, rebase, cherry-pick or revert is in progress.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.UndoResult, error) {
				return actions.UndoAction(ctx, actions.UndoOptions{Dir: helpers.Dir(cmd), Mode: mode})
			})
		},
	}

	// Add flags
	cmd.Flags().StringVar(&mode, "mode", "soft", "Reset mode: soft or mixed")

	return cmd
}

// newResetCmd creates the reset command
func newResetCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "reset <commit>",
		Short: "Move the current branch to a commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.ResetResult, error) {
				return actions.ResetAction(ctx, actions.ResetOptions{Dir: helpers.Dir(cmd), Commit: args[0], Mode: mode})
			})
		},
	}

	// Add flags
	cmd.Flags().StringVar(&mode, "mode", "mixed", "Reset mode: mixed, soft or hard")

	return cmd
}
