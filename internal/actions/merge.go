package actions

import (
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// MergeOptions contains options for the merge and rebase actions
type MergeOptions struct {
	Dir    string
	Branch string
}

// PickOptions contains options for the cherry-pick and revert actions
type PickOptions struct {
	Dir    string
	Commit string
}

// MergeAction merges branch into the current branch without opening an editor
func MergeAction(ctx *runtime.Context, opts MergeOptions) (*Success, error) {
	return startSequencer(ctx, opts.Dir, opts.Branch, "branch", missingBranch, "merge", "--no-edit")
}

// RebaseAction rebases the current branch onto branch
func RebaseAction(ctx *runtime.Context, opts MergeOptions) (*Success, error) {
	return startSequencer(ctx, opts.Dir, opts.Branch, "branch", missingBranch, "rebase")
}

// CherryPickAction applies commit on top of the current branch
func CherryPickAction(ctx *runtime.Context, opts PickOptions) (*Success, error) {
	return startSequencer(ctx, opts.Dir, opts.Commit, "commit", missingCommit, "cherry-pick")
}

// RevertAction creates a commit undoing commit
func RevertAction(ctx *runtime.Context, opts PickOptions) (*Success, error) {
	return startSequencer(ctx, opts.Dir, opts.Commit, "commit", missingCommit, "revert", "--no-edit")
}

func missingBranch() error {
	return gcerrors.NewValidationError("missing_branch", "branch is required")
}

func missingCommit() error {
	return gcerrors.NewValidationError("missing_commit", "commit is required")
}

func startSequencer(ctx *runtime.Context, dir, target, field string, missing func() error, args ...string) (*Success, error) {
	return withRepoLock(ctx, dir, func(handle git.RepositoryHandle) (*Success, error) {
		target = trimmed(target)
		if target == "" {
			return nil, missing()
		}
		if err := rejectOptionLike(field, target); err != nil {
			return nil, err
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, append(args, target)...)); err != nil {
			return nil, withFallbackCode(err, "git_"+strings.ReplaceAll(args[0], "-", "_")+"_failed")
		}
		ctx.Splog.Debug("%s %s done", args[0], target)
		return succeeded(), nil
	})
}
