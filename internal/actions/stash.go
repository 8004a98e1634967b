package actions

import (
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// StashListResult lists the stash entries, newest first
type StashListResult struct {
	Stashes []git.StashEntry `json:"stashes"`
}

// StashPushOptions contains options for stashing local changes
type StashPushOptions struct {
	Dir              string
	Message          string
	IncludeUntracked bool
	KeepIndex        bool
	Staged           bool
}

// StashRefOptions selects a stash entry. A blank Ref means stash@{0}.
type StashRefOptions struct {
	Dir string
	Ref string
}

// StashShowResult is the patch of one stash entry
type StashShowResult struct {
	Ref  string `json:"ref"`
	Diff string `json:"diff"`
}

// StashClearResult reports how many entries were dropped
type StashClearResult struct {
	Success bool `json:"success"`
	Cleared int  `json:"cleared"`
}

// StashBranchOptions contains options for creating a branch from a stash entry
type StashBranchOptions struct {
	Dir    string
	Branch string
	Ref    string
}

func stashRef(raw string) (string, error) {
	ref, ok := git.NormalizeStashRef(raw)
	if !ok {
		return "", gcerrors.NewValidationError("invalid_stash_ref", "Invalid stash ref")
	}
	return ref, nil
}

// StashListAction lists stash entries
func StashListAction(ctx *runtime.Context, dir string) (*StashListResult, error) {
	handle, err := resolveRepo(dir)
	if err != nil {
		return nil, err
	}
	result, err := runGit(ctx, git.Git(handle.Dir, "stash", "list"))
	if err != nil {
		return nil, err
	}
	return &StashListResult{Stashes: git.ParseStashList(result.Stdout)}, nil
}

// StashPushAction saves local changes to a new stash entry
func StashPushAction(ctx *runtime.Context, opts StashPushOptions) (*Success, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		if opts.Staged && (opts.IncludeUntracked || opts.KeepIndex) {
			return nil, gcerrors.NewValidationError("invalid_stash_args",
				"staged cannot be combined with includeUntracked or keepIndex")
		}
		args := []string{"stash", "push"}
		if opts.Staged {
			args = append(args, "--staged")
		}
		if opts.IncludeUntracked {
			args = append(args, "--include-untracked")
		}
		if opts.KeepIndex {
			args = append(args, "--keep-index")
		}
		if msg := trimmed(opts.Message); msg != "" {
			args = append(args, "-m", msg)
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, args...)); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}

// StashShowAction returns the patch stored in a stash entry
func StashShowAction(ctx *runtime.Context, opts StashRefOptions) (*StashShowResult, error) {
	handle, err := resolveRepo(opts.Dir)
	if err != nil {
		return nil, err
	}
	ref, err := stashRef(opts.Ref)
	if err != nil {
		return nil, err
	}
	result, err := runGit(ctx, git.Git(handle.Dir, "stash", "show", "-p", ref))
	if err != nil {
		return nil, err
	}
	return &StashShowResult{Ref: ref, Diff: result.Stdout}, nil
}

// StashApplyAction applies a stash entry and keeps it
func StashApplyAction(ctx *runtime.Context, opts StashRefOptions) (*Success, error) {
	return stashRefCommand(ctx, opts, "apply")
}

// StashPopAction applies a stash entry and drops it
func StashPopAction(ctx *runtime.Context, opts StashRefOptions) (*Success, error) {
	return stashRefCommand(ctx, opts, "pop")
}

// StashDropAction deletes a stash entry
func StashDropAction(ctx *runtime.Context, opts StashRefOptions) (*Success, error) {
	return stashRefCommand(ctx, opts, "drop")
}

func stashRefCommand(ctx *runtime.Context, opts StashRefOptions, verb string) (*Success, error) {
	ref, err := stashRef(opts.Ref)
	if err != nil {
		return nil, err
	}
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		if _, err := runGit(ctx, git.Git(handle.Dir, "stash", verb, ref)); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}

// StashClearAction drops every stash entry
func StashClearAction(ctx *runtime.Context, dir string) (*StashClearResult, error) {
	return withRepoLock(ctx, dir, func(handle git.RepositoryHandle) (*StashClearResult, error) {
		list, err := runGit(ctx, git.Git(handle.Dir, "stash", "list"))
		if err != nil {
			return nil, err
		}
		cleared := 0
		for _, line := range strings.Split(list.Stdout, "\n") {
			if strings.TrimSpace(line) != "" {
				cleared++
			}
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, "stash", "clear")); err != nil {
			return nil, err
		}
		return &StashClearResult{Success: true, Cleared: cleared}, nil
	})
}

// StashBranchAction checks out a new branch at the stash base and applies the entry
func StashBranchAction(ctx *runtime.Context, opts StashBranchOptions) (*Success, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		branch := trimmed(opts.Branch)
		if branch == "" {
			return nil, missingBranch()
		}
		if err := rejectOptionLike("branch", branch); err != nil {
			return nil, err
		}
		ref, err := stashRef(opts.Ref)
		if err != nil {
			return nil, err
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, "stash", "branch", branch, ref)); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}
