package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newContinueCmd creates the continue command
func newContinueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue <rebase|cherry-pick|revert>",
		Short: "Continue a paused operation after resolving conflicts",
		Long: `Continue the named operation once every conflict is resolved and staged.

The default commit message is kept; no editor is opened. A paused merge is
finished by committing it instead.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteSequencerOps,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.ContinueAction(ctx, actions.SequencerOptions{Dir: helpers.Dir(cmd), Op: actions.SequencerOp(args[0])})
			})
		},
	}
}

// newSkipCmd creates the skip command
func newSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "skip <rebase|cherry-pick|revert>",
		Short:             "Skip the commit a paused operation stopped at",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteSequencerOps,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.SkipAction(ctx, actions.SequencerOptions{Dir: helpers.Dir(cmd), Op: actions.SequencerOp(args[0])})
			})
		},
	}
}
