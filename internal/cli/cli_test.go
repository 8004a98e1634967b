package cli_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/testhelpers"
)

func TestStatusCommand(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.WriteFile("new.txt", "x\n"))

	res := runCLI(t, "", "status", "--dir", scene.Dir, "--scope", "untracked")
	require.NoError(t, res.err, res.stderr)

	body := decode(t, res.stdout)
	require.Equal(t, "main", body["current"])
	require.Equal(t, "untracked", body["scope"])
	require.EqualValues(t, 1, body["totalFiles"])
	require.Len(t, body["files"], 1)
}

func TestFailureEnvelope(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	res := runCLI(t, "", "-C", scene.Dir, "commit", "-m", "nothing here")
	require.ErrorIs(t, res.err, helpers.ErrReported)

	body := decode(t, res.stdout)
	require.Equal(t, "nothing_to_commit", body["code"])
	require.Equal(t, "validation", body["category"])
	require.Equal(t, "Nothing to commit", body["error"])
}

func TestCommitAndUndoCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.WriteFile("a.txt", "a\n"))

	res := runCLI(t, "", "-C", scene.Dir, "commit", "-m", "add a", "a.txt")
	require.NoError(t, res.err, res.stdout)
	body := decode(t, res.stdout)
	require.Equal(t, true, body["success"])
	require.Equal(t, "main", body["branch"])
	testhelpers.ExpectCommits(t, scene.Repo, "main", []string{"add a", "1"})

	res = runCLI(t, "", "-C", scene.Dir, "undo")
	require.NoError(t, res.err, res.stdout)
	require.Equal(t, "soft", decode(t, res.stdout)["mode"])
	testhelpers.ExpectCommits(t, scene.Repo, "main", []string{"1"})
}

func TestApplyCommandReadsStdin(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CommitFile("a.txt", "old\n", "add a"))
	require.NoError(t, scene.Repo.WriteFile("a.txt", "new\n"))

	patch := "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-old\n+new\n"
	res := runCLI(t, patch, "-C", scene.Dir, "apply", "--mode", "stage")
	require.NoError(t, res.err, res.stdout)

	staged, err := scene.Repo.RunGitCommandAndGetOutput("diff", "--cached", "--name-only")
	require.NoError(t, err)
	require.Equal(t, "a.txt", staged)
}

func TestSettingsCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	t.Setenv("GITCORE_SETTINGS_FILE", path)

	res := runCLIWithSettings(t, "", "settings", "set", "gitBranchProtection", `["main","release/*"]`)
	require.NoError(t, res.err, res.stdout)
	res = runCLIWithSettings(t, "", "settings", "set", "gitEnforceBranchProtection", "true")
	require.NoError(t, res.err, res.stdout)
	res = runCLIWithSettings(t, "", "settings", "set", "gitBranchProtectionPrompt", "alwaysCommitToNewBranch")
	require.NoError(t, res.err, res.stdout)

	_, err := os.Stat(path)
	require.NoError(t, err)

	res = runCLIWithSettings(t, "", "settings", "get", "gitEnforceBranchProtection")
	require.NoError(t, res.err, res.stdout)
	body := decode(t, res.stdout)
	require.Equal(t, true, body["value"])
	require.Equal(t, true, body["set"])

	res = runCLIWithSettings(t, "", "settings", "policy")
	require.NoError(t, res.err, res.stdout)
	body = decode(t, res.stdout)
	flags := body["flags"].(map[string]any)
	require.Equal(t, true, flags["gitEnforceBranchProtection"])
	require.Equal(t, false, flags["gitAllowForcePush"])
	require.Equal(t, []any{"main", "release/*"}, body["branchProtection"])

	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.WriteFile("a.txt", "a\n"))
	res = runCLIWithSettings(t, "", "-C", scene.Dir, "commit", "-a", "-m", "blocked")
	require.ErrorIs(t, res.err, helpers.ErrReported)
	require.Equal(t, "git_branch_protected", decode(t, res.stdout)["code"])
}

func TestBinary(t *testing.T) {
	binary := testhelpers.GitcoreBinary(t)
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	cmd := exec.Command(binary, "stash", "list", "--dir", scene.Dir)
	cmd.Env = append(os.Environ(), "GITCORE_SETTINGS_FILE="+filepath.Join(t.TempDir(), "settings.json"))
	out, err := cmd.Output()
	require.NoError(t, err)
	require.JSONEq(t, `{"stashes":[]}`, string(out))

	cmd = exec.Command(binary, "abort", "bisect", "--dir", scene.Dir)
	out, err = cmd.Output()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Equal(t, "invalid_operation", decode(t, string(out))["code"])
}
