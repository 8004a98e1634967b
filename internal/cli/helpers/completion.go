// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"strings"

	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/git"
)

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns the local branch names of the repository selected with --dir.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	branches, err := git.LocalBranches(Dir(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// CompleteRemotes returns the configured remote names
func CompleteRemotes(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	remotes, err := git.RemoteNames(Dir(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return remotes, cobra.ShellCompDirectiveNoFileComp
}

// CompleteSequencerOps lists the operations abort, continue and skip accept
func CompleteSequencerOps(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return strings.Fields("merge rebase cherry-pick revert"), cobra.ShellCompDirectiveNoFileComp
}
