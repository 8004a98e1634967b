package helpers

import (
	"errors"

	"github.com/spf13/cobra"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/output"
	"gitcore.dev/gitcore/internal/runtime"
)

// ErrReported is returned once a failure has been written to the output, so the
// caller only has to pick an exit code.
var ErrReported = errors.New("failure reported")

// Run is a helper that provides a runtime context to a command's execution
// function and writes its result or failure.
func Run[T any](cmd *cobra.Command, fn func(ctx *runtime.Context) (T, error)) error {
	ctx, err := runtime.GetContext(cmd.Context())
	if err != nil {
		return err
	}
	formatter := Formatter(cmd)

	result, err := fn(ctx.WithContext(cmd.Context()))
	if err != nil {
		failure := gcerrors.AsFailure(err, "internal_error")
		ctx.Splog.Debug("%s failed: %s (%s)", cmd.CommandPath(), failure.Code, failure.Message)
		if werr := formatter.Failure(failure); werr != nil {
			return werr
		}
		return ErrReported
	}
	return formatter.Result(result)
}

// Formatter returns the output formatter for cmd, honoring --json
func Formatter(cmd *cobra.Command) *output.Formatter {
	f := output.NewFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if raw, err := cmd.Flags().GetBool("json"); err == nil {
		f.SetJSON(raw)
	}
	return f
}

// Dir returns the repository directory selected with --dir
func Dir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
