package cli

import (
	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/runtime"
)

// newSubmoduleCmd creates the submodule command and its subcommands
func newSubmoduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submodule",
		Short: "List, add, initialize and update submodules",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the submodules declared in .gitmodules",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.SubmoduleListResult, error) {
					return actions.SubmoduleListAction(ctx, helpers.Dir(cmd))
				})
			},
		},
		newSubmoduleAddCmd(),
		&cobra.Command{
			Use:   "init [path]",
			Short: "Register submodules in .git/config",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := ""
				if len(args) > 0 {
					path = args[0]
				}
				return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
					return actions.SubmoduleInitAction(ctx, helpers.Dir(cmd), path)
				})
			},
		},
		newSubmoduleUpdateCmd(),
	)

	return cmd
}

func newSubmoduleAddCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "add <url> <path>",
		Short: "Add a submodule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.SubmoduleAddAction(ctx, actions.SubmoduleAddOptions{
					Dir:    helpers.Dir(cmd),
					URL:    args[0],
					Path:   args[1],
					Branch: branch,
				})
			})
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch of the submodule to track")

	return cmd
}

func newSubmoduleUpdateCmd() *cobra.Command {
	var opts actions.SubmoduleUpdateOptions

	cmd := &cobra.Command{
		Use:   "update [path]",
		Short: "Check out the recorded commit of submodules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = helpers.Dir(cmd)
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.SubmoduleUpdateAction(ctx, opts)
			})
		},
	}

	// Add flags
	cmd.Flags().BoolVar(&opts.Init, "init", false, "Initialize submodules that are not yet registered")
	cmd.Flags().BoolVar(&opts.Recursive, "recursive", false, "Update nested submodules")

	return cmd
}
