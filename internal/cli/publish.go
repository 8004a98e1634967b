package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newPublishCmd creates the publish command
func newPublishCmd() *cobra.Command {
	var (
		name   string
		remote string
		public bool
		view   bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Create a GitHub repository and push the current branch to it",
		Long: `Create a repository for the authenticated GitHub user, add it as a remote
and push the current branch with upstream tracking.

The repository name defaults to the directory name and the repository is
private unless --public is given. Credentials come from $GITHUB_TOKEN or the
gh CLI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			private := !public
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.PublishResult, error) {
				return actions.PublishAction(ctx, actions.PublishOptions{
					Dir:     helpers.Dir(cmd),
					Name:    name,
					Remote:  remote,
					Private: &private,
					View:    view,
				})
			})
		},
	}

	// Add flags
	cmd.Flags().StringVar(&name, "name", "", "Repository name (defaults to the directory name)")
	cmd.Flags().StringVar(&remote, "remote", "origin", "Name of the remote to add")
	cmd.Flags().BoolVar(&public, "public", false, "Create a public repository")
	cmd.Flags().BoolVar(&view, "view", false, "Open the new repository in a browser")

	return cmd
}
