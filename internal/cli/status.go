package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	var (
		scope     string
		offset    int
		limit     int
		summary   bool
		diffStats bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show working tree changes, paged by scope",
		Long: `Show the current branch, its tracking state and the changed files.

Files are sorted by path and paged with --offset and --limit. --scope narrows
the page to staged, unstaged, untracked or merge (conflicted) files; the counts
always cover every file. A branch without upstream reports how many commits
it has over the default branch as ahead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := actions.StatusOptions{
				Dir:              helpers.Dir(cmd),
				Scope:            scope,
				Offset:           offset,
				Summary:          summary,
				IncludeDiffStats: diffStats,
			}
			if cmd.Flags().Changed("limit") {
				opts.Limit = &limit
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.StatusResult, error) {
				return actions.StatusAction(ctx, opts)
			})
		},
	}

	// Add flags
	cmd.Flags().StringVar(&scope, "scope", actions.ScopeAll, "One of all, staged, unstaged, untracked, merge")
	cmd.Flags().IntVar(&offset, "offset", 0, "Index of the first file to return")
	cmd.Flags().IntVar(&limit, "limit", actions.DefaultStatusLimit, "Maximum number of files to return")
	cmd.Flags().BoolVar(&summary, "summary", false, "Return counts only")
	cmd.Flags().BoolVar(&diffStats, "diff-stats", false, "Include line counts for the returned files")
	_ = cmd.RegisterFlagCompletionFunc("scope", cobra.FixedCompletions(
		[]string{actions.ScopeAll, actions.ScopeStaged, actions.ScopeUnstaged, actions.ScopeUntracked, actions.ScopeMerge},
		cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
