package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/output"
	"gitcore.dev/gitcore/internal/runtime"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	dir     string
	json    bool
	debug   bool
	verbose bool
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gitcore",
		Short: "Gitcore runs guarded git operations and reports the outcome as JSON",
		Long: `Gitcore runs git operations against a working tree on behalf of a client.

Every command prints a JSON result on success. Failures are reported as a JSON
envelope with a stable error code, an HTTP-style status, a category and a hint.
On a terminal, failures are rendered for humans unless --json is given.

Policy (force pushes, --no-verify commits, branch protection, strict patch
validation) is read from the settings file and GITCORE_GIT_* environment
variables.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := runtime.GetContext(cmd.Context()); err == nil {
				return nil
			}
			splog, err := output.NewSplogWithOptions(output.SplogOptions{
				LogFile: os.Getenv(output.LogFileEnvVar),
				Debug:   opts.debug || os.Getenv(output.DebugEnvVar) != "",
				Verbose: opts.verbose,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			ctx := runtime.NewContext(cmd.Context(), splog)
			cmd.SetContext(runtime.Attach(cmd.Context(), ctx))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if ctx, err := runtime.GetContext(cmd.Context()); err == nil {
				return ctx.Splog.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "Repository directory to operate on")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print failures as JSON even on a terminal")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log every git invocation")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log informational messages")

	// Add subcommands
	rootCmd.AddCommand(
		newStatusCmd(),
		newCommitCmd(),
		newCommitTemplateCmd(),
		newUndoCmd(),
		newResetCmd(),
		newApplyCmd(),
		newBlameCmd(),
		newIgnoreCmd(),
		newPushCmd(),
		newFetchCmd(),
		newPullCmd(),
		newPublishCmd(),
		newMergeCmd(),
		newRebaseCmd(),
		newCherryPickCmd(),
		newRevertCmd(),
		newAbortCmd(),
		newContinueCmd(),
		newSkipCmd(),
		newStashCmd(),
		newSubmoduleCmd(),
		newGpgCmd(),
		newSettingsCmd(),
	)

	return rootCmd
}
