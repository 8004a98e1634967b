package actions

import (
	"net/http"
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// UndoOptions contains options for undoing the last commit. Mode is soft (default)
// or mixed.
type UndoOptions struct {
	Dir  string
	Mode string
}

// UndoResult reports the reset mode used
type UndoResult struct {
	Success bool   `json:"success"`
	Mode    string `json:"mode"`
}

// ResetOptions contains options for moving HEAD to a commit. Mode is mixed
// (default), soft or hard.
type ResetOptions struct {
	Dir    string
	Commit string
	Mode   string
}

// ResetResult reports the reset that was performed
type ResetResult struct {
	Success bool   `json:"success"`
	Mode    string `json:"mode"`
	Commit  string `json:"commit"`
}

func resetFlag(raw, fallback string, allowed ...string) (string, string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		mode = fallback
	}
	for _, a := range allowed {
		if a == mode {
			return mode, "--" + mode, nil
		}
	}
	return "", "", gcerrors.NewValidationError("invalid_mode", "Invalid mode")
}

func sequencerBusy(code, message string) error {
	return gcerrors.NewFailure(http.StatusConflict, code, message).
		WithCategory(gcerrors.CategoryConflict).
		WithHint("Finish or abort the operation in progress, then retry.")
}

// UndoAction moves HEAD back one commit, keeping the changes
func UndoAction(ctx *runtime.Context, opts UndoOptions) (*UndoResult, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*UndoResult, error) {
		if git.SequencerInProgress(ctx.Context, ctx.Runner, handle.Dir) {
			return nil, sequencerBusy("git_undo_not_allowed",
				"Cannot undo commit while a merge/rebase/cherry-pick/revert is in progress")
		}

		parent, err := ctx.Runner.Run(ctx.Context, git.Git(handle.Dir, "rev-parse", "--verify", "HEAD~1"))
		if err != nil {
			return nil, spawnFailure(err)
		}
		if !parent.Success() {
			if f := git.FailureFor(parent); f != nil && f.Code != "git_failed" {
				return nil, f
			}
			return nil, gcerrors.NewValidationError("git_undo_not_possible", "No parent commit to undo")
		}

		mode, flag, err := resetFlag(opts.Mode, "soft", "soft", "mixed")
		if err != nil {
			return nil, err
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, "reset", flag, "HEAD~1")); err != nil {
			return nil, err
		}
		return &UndoResult{Success: true, Mode: mode}, nil
	})
}

// ResetAction moves the current branch to commit
func ResetAction(ctx *runtime.Context, opts ResetOptions) (*ResetResult, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*ResetResult, error) {
		target := trimmed(opts.Commit)
		if target == "" {
			return nil, missingCommit()
		}
		if err := rejectOptionLike("commit", target); err != nil {
			return nil, err
		}
		if git.SequencerInProgress(ctx.Context, ctx.Runner, handle.Dir) {
			return nil, sequencerBusy("git_reset_not_allowed",
				"Cannot reset while a merge/rebase/cherry-pick/revert is in progress")
		}
		mode, flag, err := resetFlag(opts.Mode, "mixed", "mixed", "hard", "soft")
		if err != nil {
			return nil, err
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, "reset", flag, target)); err != nil {
			return nil, err
		}
		return &ResetResult{Success: true, Mode: mode, Commit: target}, nil
	})
}
