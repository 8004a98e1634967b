package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

func TestFailureEnvelope(t *testing.T) {
	t.Run("minimal failure", func(t *testing.T) {
		f := gcerrors.NewValidationError("missing_message", "Commit message is required")
		require.Equal(t, map[string]any{
			"error": "Commit message is required",
			"code":  "missing_message",
		}, f.Envelope())
		require.Equal(t, 400, f.Status)
	})

	t.Run("git failure carries output and fields", func(t *testing.T) {
		f := gcerrors.NewFailure(409, "git_merge_conflict", "Merge has conflicts").
			WithCategory(gcerrors.CategoryConflict).
			WithHint("Resolve the conflicts, then continue.").
			WithOutput(1, "", "CONFLICT (content)").
			WithField("operation", "merge")

		env := f.Envelope()
		require.Equal(t, "conflict", env["category"])
		require.Equal(t, false, env["retryable"])
		require.Equal(t, 1, env["exitCode"])
		require.Equal(t, "", env["stdout"])
		require.Equal(t, "CONFLICT (content)", env["stderr"])
		require.Equal(t, "merge", env["operation"])
		require.NotContains(t, env, "path")
	})

	t.Run("busy is retryable", func(t *testing.T) {
		f := gcerrors.NewBusyError()
		require.Equal(t, 409, f.Status)
		require.Equal(t, true, f.Envelope()["retryable"])
	})
}

func TestFailureIs(t *testing.T) {
	require.ErrorIs(t, gcerrors.NewBusyError(), gcerrors.ErrRepoBusy)
	require.ErrorIs(t, gcerrors.NewPolicyError("git_branch_protected", "protected", ""), gcerrors.ErrPolicyDenied)
	require.ErrorIs(t, gcerrors.NewValidationError("invalid_path", "bad"), gcerrors.ErrInvalidArgument)
	require.ErrorIs(t, gcerrors.NewInternalError("spawn_failed", errors.New("boom")), gcerrors.ErrInternal)

	gitFailure := gcerrors.NewValidationError("nothing_to_commit", "Nothing to commit").WithOutput(1, "", "")
	require.ErrorIs(t, gitFailure, gcerrors.ErrGitFailed)
	require.NotErrorIs(t, gitFailure, gcerrors.ErrInvalidArgument)

	wrapped := fmt.Errorf("commit: %w", gcerrors.NewBusyError())
	require.ErrorIs(t, wrapped, gcerrors.ErrRepoBusy)
}

func TestAsFailure(t *testing.T) {
	require.Nil(t, gcerrors.AsFailure(nil, "x"))

	busy := gcerrors.NewBusyError()
	require.Same(t, busy, gcerrors.AsFailure(fmt.Errorf("wrapped: %w", busy), "x"))

	f := gcerrors.AsFailure(errors.New(" exec: git not found "), "git_spawn_failed")
	require.Equal(t, "git_spawn_failed", f.Code)
	require.Equal(t, "exec: git not found", f.Message)
	require.Equal(t, 500, f.Status)
	require.Equal(t, "exec: git not found (git_spawn_failed)", f.Error())
}

func TestGitCommandError(t *testing.T) {
	err := gcerrors.NewGitCommandError("gpg", []string{"--list-secret-keys"}, "", "", errors.New("executable file not found"))
	require.ErrorIs(t, err, gcerrors.ErrInternal)
	require.Contains(t, err.Error(), "failed to run gpg [--list-secret-keys]")
	require.Contains(t, err.Error(), "executable file not found")
}
