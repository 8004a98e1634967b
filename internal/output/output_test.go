package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/output"
)

func TestFormatter(t *testing.T) {
	t.Run("results are compact JSON off a terminal", func(t *testing.T) {
		var out, errOut bytes.Buffer
		f := output.NewFormatter(&out, &errOut)

		require.NoError(t, f.Result(map[string]any{"success": true, "branch": "main"}))
		require.Equal(t, `{"branch":"main","success":true}`+"\n", out.String())
		require.Empty(t, errOut.String())
	})

	t.Run("failures are envelopes on stdout off a terminal", func(t *testing.T) {
		var out, errOut bytes.Buffer
		f := output.NewFormatter(&out, &errOut)

		failure := gcerrors.NewValidationError("invalid_path", "Invalid path").
			WithCategory(gcerrors.CategoryValidation)
		require.NoError(t, f.Failure(failure))

		var env map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &env))
		require.Equal(t, "invalid_path", env["code"])
		require.Equal(t, "validation", env["category"])
		require.Empty(t, errOut.String())
	})
}

func TestRenderFailure(t *testing.T) {
	failure := gcerrors.NewFailure(409, "git_merge_conflict", "Merge has conflicts").
		WithCategory(gcerrors.CategoryConflict).
		WithHint("Resolve the conflicts, then continue.").
		WithOutput(1, "", "CONFLICT (content): a.txt\n")

	rendered := output.RenderFailure(failure)
	require.Contains(t, rendered, "error: Merge has conflicts")
	require.Contains(t, rendered, "[git_merge_conflict]")
	require.Contains(t, rendered, "hint: Resolve the conflicts, then continue.")
	require.True(t, strings.HasSuffix(rendered, "CONFLICT (content): a.txt"))
}

func TestSplog(t *testing.T) {
	t.Run("console defaults to warnings", func(t *testing.T) {
		var console bytes.Buffer
		splog, err := output.NewSplogWithOptions(output.SplogOptions{Console: &console})
		require.NoError(t, err)

		splog.Info("hidden")
		splog.Warn("careful %d", 1)
		splog.Logger().Warn("git command", "code", "git_failed")
		require.Equal(t, "careful 1\ngit command code=git_failed\n", console.String())
	})

	t.Run("verbose and debug lower the level", func(t *testing.T) {
		var console bytes.Buffer
		splog, err := output.NewSplogWithOptions(output.SplogOptions{Console: &console, Verbose: true})
		require.NoError(t, err)
		splog.Info("shown")
		splog.Debug("hidden")
		require.Equal(t, "shown\n", console.String())

		console.Reset()
		splog, err = output.NewSplogWithOptions(output.SplogOptions{Console: &console, Debug: true})
		require.NoError(t, err)
		splog.Debug("shown")
		require.Equal(t, "shown\n", console.String())
	})

	t.Run("log file receives every record as JSON", func(t *testing.T) {
		var console bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "gitcore.log")
		splog, err := output.NewSplogWithOptions(output.SplogOptions{
			Console:   &console,
			LogFile:   path,
			LookupEnv: func(string) (string, bool) { return "", false },
		})
		require.NoError(t, err)

		splog.Logger().Debug("git command", "operation", "status", "durationMs", 12)
		require.NoError(t, splog.Close())
		require.Empty(t, console.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var record map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
		require.Equal(t, "git command", record["msg"])
		require.Equal(t, "DEBUG", record["level"])
		require.Equal(t, "status", record["operation"])
	})
}
