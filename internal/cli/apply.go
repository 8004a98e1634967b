package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// newApplyCmd creates the apply command
func newApplyCmd() *cobra.Command {
	var (
		mode   string
		target string
	)

	cmd := &cobra.Command{
		Use:   "apply [patch-file]",
		Short: "Stage, unstage or discard a unified diff",
		Long: `Feed a unified diff to git apply. The patch is read from the file argument,
or from stdin when it is omitted or "-".

Modes: stage, unstage and discard, each optionally suffixed with -hunk or
-selected, plus apply and apply-3way. When gitStrictPatchValidation is on,
stage/unstage/discard patches must touch a single file, and hunk or selection
patches a single hunk, with headers that match their content.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := readPatch(cmd, args)
			if err != nil {
				return err
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*actions.Success, error) {
				return actions.ApplyPatchAction(ctx, actions.ApplyPatchOptions{
					Dir:    helpers.Dir(cmd),
					Patch:  patch,
					Mode:   mode,
					Target: target,
				})
			})
		},
	}

	// Add flags
	cmd.Flags().StringVar(&mode, "mode", "stage", "How to apply the patch")
	cmd.Flags().StringVar(&target, "target", "", "Granularity of the patch: file, hunk or selected")

	return cmd
}

// readPatch reads at most one byte over the size limit so oversized patches are
// still rejected with patch_too_large
func readPatch(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to open patch: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, git.MaxPatchBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read patch: %w", err)
	}
	return string(data), nil
}
