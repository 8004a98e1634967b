package cli_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/cli"
)

// execResult captures one in-process run of the root command
type execResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with args against an isolated settings file
func runCLI(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()
	t.Setenv("GITCORE_SETTINGS_FILE", filepath.Join(t.TempDir(), "settings.json"))
	return runCLIWithSettings(t, stdin, args...)
}

func runCLIWithSettings(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmd("test", "none", "unknown")
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body), raw)
	return body
}
