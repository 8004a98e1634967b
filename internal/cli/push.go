package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	var (
		branch      string
		ref         string
		force       bool
		withLease   bool
		tags        bool
		followTags  bool
		setUpstream bool
		auth        authFlags
	)

	cmd := &cobra.Command{
		Use:   "push [remote]",
		Short: "Push commits to a remote",
		Long: `Push the current branch, a named branch or a refspec to a remote.

Without a branch, a push that fails because the current branch has no upstream
is retried once with --set-upstream. Force pushes are refused unless
gitAllowForcePush is enabled. Pushes to protected branches are refused when
branch protection is enforced.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteRemotes,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.PushOptions{
				Dir:         helpers.Dir(cmd),
				Branch:      branch,
				Ref:         ref,
				Tags:        tags,
				FollowTags:  followTags,
				SetUpstream: setUpstream,
				Auth:        auth.options(),
			}
			if len(args) > 0 {
				opts.Remote = args[0]
			}
			switch {
			case withLease:
				opts.Force = actions.ForceWithLease
			case force:
				opts.Force = actions.ForcePush
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.PushResult, error) {
				return actions.PushAction(ctx, opts)
			})
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to push")
	cmd.Flags().StringVar(&ref, "ref", "", "Refspec to push (for example HEAD:refs/heads/main)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force the push")
	cmd.Flags().BoolVar(&withLease, "force-with-lease", false, "Force the push unless the remote moved")
	cmd.Flags().BoolVar(&tags, "tags", false, "Push all tags")
	cmd.Flags().BoolVar(&followTags, "follow-tags", false, "Push annotated tags reachable from the pushed commits")
	cmd.Flags().BoolVarP(&setUpstream, "set-upstream", "u", false, "Record the pushed branch as upstream")
	auth.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("branch", helpers.CompleteBranches)
	cmd.MarkFlagsMutuallyExclusive("force", "force-with-lease")

	return cmd
}
