package cli

import (
	"os"

	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

const gpgPassphraseEnvVar = "GITCORE_GPG_PASSPHRASE"

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var (
		message    string
		all        bool
		noVerify   bool
		signoff    bool
		amend      bool
		allowEmpty bool
		noGpgSign  bool
	)

	cmd := &cobra.Command{
		Use:   "commit [files...]",
		Short: "Record staged changes, optionally staging files first",
		Long: `Create a commit with the given message.

Files passed as arguments are staged and committed on their own; --all stages
every change first. When $` + gpgPassphraseEnvVar + ` is set, the passphrase is
preset in gpg-agent so a signed commit does not need a pinentry prompt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.CommitOptions{
				Dir:           helpers.Dir(cmd),
				Message:       message,
				Files:         args,
				AddAll:        all,
				NoVerify:      noVerify,
				Signoff:       signoff,
				Amend:         amend,
				AllowEmpty:    allowEmpty,
				NoGpgSign:     noGpgSign,
				GpgPassphrase: os.Getenv(gpgPassphraseEnvVar),
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.CommitResult, error) {
				return actions.CommitAction(ctx, opts)
			})
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stage all changes, including untracked files")
	cmd.Flags().BoolVarP(&noVerify, "no-verify", "n", false, "Skip commit hooks (requires gitAllowNoVerifyCommit)")
	cmd.Flags().BoolVarP(&signoff, "signoff", "s", false, "Add a Signed-off-by trailer")
	cmd.Flags().BoolVar(&amend, "amend", false, "Amend the previous commit")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Allow a commit without changes")
	cmd.Flags().BoolVar(&noGpgSign, "no-gpg-sign", false, "Do not sign the commit")

	return cmd
}

// newCommitTemplateCmd creates the commit-template command
func newCommitTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commit-template",
		Short: "Show the configured commit message template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.CommitTemplateResult, error) {
				return actions.CommitTemplateAction(ctx, helpers.Dir(cmd))
			})
		},
	}
}
