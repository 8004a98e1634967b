package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newFetchCmd creates the fetch command
func newFetchCmd() *cobra.Command {
	var (
		branch string
		ref    string
		all    bool
		prune  bool
		auth   authFlags
	)

	cmd := &cobra.Command{
		Use:               "fetch [remote]",
		Short:             "Download objects and refs from a remote",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteRemotes,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.FetchOptions{
				Dir:    helpers.Dir(cmd),
				Branch: branch,
				Ref:    ref,
				All:    all,
				Prune:  prune,
				Auth:   auth.options(),
			}
			if len(args) > 0 {
				opts.Remote = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.FetchAction(ctx, opts)
			})
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to fetch (requires a remote)")
	cmd.Flags().StringVar(&ref, "ref", "", "Ref to fetch (requires a remote)")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every remote")
	cmd.Flags().BoolVarP(&prune, "prune", "p", false, "Remove remote-tracking refs that no longer exist")
	auth.register(cmd)

	return cmd
}

// newPullCmd creates the pull command
func newPullCmd() *cobra.Command {
	var (
		branch string
		ref    string
		rebase bool
		auth   authFlags
	)

	cmd := &cobra.Command{
		Use:               "pull [remote]",
		Short:             "Fetch and integrate a remote branch",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteRemotes,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.PullOptions{
				Dir:    helpers.Dir(cmd),
				Branch: branch,
				Ref:    ref,
				Rebase: rebase,
				Auth:   auth.options(),
			}
			if len(args) > 0 {
				opts.Remote = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.PullResult, error) {
				return actions.PullAction(ctx, opts)
			})
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to pull (requires a remote)")
	cmd.Flags().StringVar(&ref, "ref", "", "Ref to pull when no branch is given")
	cmd.Flags().BoolVarP(&rebase, "rebase", "r", false, "Rebase instead of merging")
	auth.register(cmd)

	return cmd
}
