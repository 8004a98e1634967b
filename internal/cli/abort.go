package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newAbortCmd creates the abort command
func newAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort <merge|rebase|cherry-pick|revert>",
		Short: "Abort a paused merge, rebase, cherry-pick or revert",
		Long: `Abort the named operation and restore the state from before it started.

Any resolutions made so far are discarded.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteSequencerOps,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.AbortAction(ctx, actions.SequencerOptions{Dir: helpers.Dir(cmd), Op: actions.SequencerOp(args[0])})
			})
		},
	}
}
