package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newGpgCmd creates the gpg command and its subcommands
func newGpgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gpg",
		Short: "Inspect and configure commit signing",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "keys",
			Short: "List secret keys usable for signing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.GpgKeysResult, error) {
					return actions.GpgKeysAction(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "enable-preset",
			Short: "Allow presetting passphrases in gpg-agent and restart it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.GpgPresetResult, error) {
					return actions.GpgEnablePresetAction(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "disable-signing",
			Short: "Turn off commit signing for the repository",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
					return actions.GpgDisableSigningAction(ctx, helpers.Dir(cmd))
				})
			},
		},
		&cobra.Command{
			Use:   "set-key <key>",
			Short: "Set the signing key for the repository",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
					return actions.GpgSetSigningKeyAction(ctx, helpers.Dir(cmd), args[0])
				})
			},
		},
	)

	return cmd
}
