package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// sequencerMarkers are the git-path entries present while an operation is paused
var sequencerMarkers = []string{
	"MERGE_HEAD",
	"rebase-apply",
	"rebase-merge",
	"CHERRY_PICK_HEAD",
	"REVERT_HEAD",
}

// output runs git and returns trimmed stdout, or ok=false on any failure
func output(ctx context.Context, runner Runner, dir string, args ...string) (string, bool) {
	result, err := runner.Run(ctx, Git(dir, args...))
	if err != nil || !result.Success() {
		return "", false
	}
	return strings.TrimSpace(result.Stdout), true
}

// CurrentBranch returns the checked out branch, or "" on a detached HEAD
func CurrentBranch(ctx context.Context, runner Runner, dir string) string {
	branch, _ := output(ctx, runner, dir, "symbolic-ref", "--short", "HEAD")
	return branch
}

// HeadCommit returns the full hash of HEAD, or ""
func HeadCommit(ctx context.Context, runner Runner, dir string) string {
	hash, _ := output(ctx, runner, dir, "rev-parse", "HEAD")
	return hash
}

// ConfigGet reads a git config value from scope ("--local", "--global", or "" for
// the merged view). Unset keys return ok=false.
func ConfigGet(ctx context.Context, runner Runner, dir, scope, key string) (string, bool) {
	args := []string{"config"}
	if scope != "" {
		args = append(args, scope)
	}
	args = append(args, "--get", key)
	value, ok := output(ctx, runner, dir, args...)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// GitPathExists reports whether `git rev-parse --git-path name` exists on disk
func GitPathExists(ctx context.Context, runner Runner, dir, name string) bool {
	raw, ok := output(ctx, runner, dir, "rev-parse", "--git-path", name)
	if !ok || raw == "" {
		return false
	}
	if !filepath.IsAbs(raw) {
		raw = filepath.Join(dir, raw)
	}
	_, err := os.Stat(raw)
	return err == nil
}

// SequencerInProgress reports whether a merge, rebase, cherry-pick or revert is paused
func SequencerInProgress(ctx context.Context, runner Runner, dir string) bool {
	for _, marker := range sequencerMarkers {
		if GitPathExists(ctx, runner, dir, marker) {
			return true
		}
	}
	return false
}

// ShowToplevel returns the work tree root git reports for dir
func ShowToplevel(ctx context.Context, runner Runner, dir string) (string, CommandResult, error) {
	result, err := runner.Run(ctx, Git(dir, "rev-parse", "--show-toplevel"))
	if err != nil {
		return "", result, err
	}
	return strings.TrimSpace(result.Stdout), result, nil
}
