package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newStashCmd creates the stash command and its subcommands
func newStashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stash",
		Short: "Save, inspect and restore stashed changes",
		Long: `Manage the stash. Subcommands taking a ref default to stash@{0}; a bare
index such as 2 means stash@{2}.`,
	}

	cmd.AddCommand(
		newStashListCmd(),
		newStashShowCmd(),
		newStashPushCmd(),
		newStashRefCmd("apply", "Apply a stash entry, keeping it", actions.StashApplyAction),
		newStashRefCmd("pop", "Apply a stash entry and drop it", actions.StashPopAction),
		newStashRefCmd("drop", "Drop a stash entry", actions.StashDropAction),
		newStashClearCmd(),
		newStashBranchCmd(),
	)

	return cmd
}

func stashRefArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newStashListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stash entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.StashListResult, error) {
				return actions.StashListAction(ctx, helpers.Dir(cmd))
			})
		},
	}
}

func newStashShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [ref]",
		Short: "Show the patch of a stash entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.StashShowResult, error) {
				return actions.StashShowAction(ctx, actions.StashRefOptions{Dir: helpers.Dir(cmd), Ref: stashRefArg(args)})
			})
		},
	}
}

func newStashPushCmd() *cobra.Command {
	var opts actions.StashPushOptions

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Stash local changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Dir = helpers.Dir(cmd)
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.StashPushAction(ctx, opts)
			})
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Stash message")
	cmd.Flags().BoolVarP(&opts.IncludeUntracked, "include-untracked", "u", false, "Also stash untracked files")
	cmd.Flags().BoolVarP(&opts.KeepIndex, "keep-index", "k", false, "Leave staged changes in place")
	cmd.Flags().BoolVarP(&opts.Staged, "staged", "S", false, "Stash only staged changes")

	return cmd
}

func newStashRefCmd(verb, short string, action func(*runtime.Context, actions.StashRefOptions) (*actions.Success, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " [ref]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return action(ctx, actions.StashRefOptions{Dir: helpers.Dir(cmd), Ref: stashRefArg(args)})
			})
		},
	}
}

func newStashClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every stash entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.StashClearResult, error) {
				return actions.StashClearAction(ctx, helpers.Dir(cmd))
			})
		},
	}
}

func newStashBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch <name> [ref]",
		Short: "Create a branch from a stash entry and pop it there",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.StashBranchAction(ctx, actions.StashBranchOptions{
					Dir:    helpers.Dir(cmd),
					Branch: args[0],
					Ref:    stashRefArg(args[1:]),
				})
			})
		},
	}
}
