package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newMergeCmd creates the merge command
func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "merge <branch>",
		Short:             "Merge a branch into the current branch",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.MergeAction(ctx, actions.MergeOptions{Dir: helpers.Dir(cmd), Branch: args[0]})
			})
		},
	}
}

// newRebaseCmd creates the rebase command
func newRebaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rebase <branch>",
		Short:             "Rebase the current branch onto another branch",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.RebaseAction(ctx, actions.MergeOptions{Dir: helpers.Dir(cmd), Branch: args[0]})
			})
		},
	}
}

// newCherryPickCmd creates the cherry-pick command
func newCherryPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cherry-pick <commit>",
		Short: "Apply the changes of a commit onto the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.CherryPickAction(ctx, actions.PickOptions{Dir: helpers.Dir(cmd), Commit: args[0]})
			})
		},
	}
}

// newRevertCmd creates the revert command
func newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <commit>",
		Short: "Record a commit that reverses another commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.RevertAction(ctx, actions.PickOptions{Dir: helpers.Dir(cmd), Commit: args[0]})
			})
		},
	}
}
