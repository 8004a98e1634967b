package actions

import (
	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// SubmoduleListResult lists the entries of .gitmodules
type SubmoduleListResult struct {
	Submodules []git.Submodule `json:"submodules"`
}

// SubmoduleAddOptions contains options for adding a submodule
type SubmoduleAddOptions struct {
	Dir    string
	URL    string
	Path   string
	Branch string
}

// SubmoduleUpdateOptions contains options for updating submodules. A blank Path
// updates all of them.
type SubmoduleUpdateOptions struct {
	Dir       string
	Path      string
	Init      bool
	Recursive bool
}

// SubmoduleListAction reads .gitmodules at the work tree root without running git
func SubmoduleListAction(_ *runtime.Context, dir string) (*SubmoduleListResult, error) {
	handle, err := resolveRepo(dir)
	if err != nil {
		return nil, err
	}
	subs, err := git.ReadGitmodules(handle.Key)
	if err != nil {
		return nil, gcerrors.NewInternalError("gitmodules_read_failed", err)
	}
	return &SubmoduleListResult{Submodules: subs}, nil
}

// SubmoduleAddAction clones url into path and records it in .gitmodules
func SubmoduleAddAction(ctx *runtime.Context, opts SubmoduleAddOptions) (*Success, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		url := trimmed(opts.URL)
		if url == "" {
			return nil, gcerrors.NewValidationError("missing_url", "url is required")
		}
		path, err := requireSafePath(opts.Path)
		if err != nil {
			return nil, err
		}

		args := []string{"submodule", "add"}
		if branch := trimmed(opts.Branch); branch != "" {
			if err := rejectOptionLike("branch", branch); err != nil {
				return nil, err
			}
			args = append(args, "-b", branch)
		}
		args = append(args, "--", url, path)
		if _, err := runGit(ctx, git.Git(handle.Dir, args...)); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}

// SubmoduleInitAction registers the submodule at path in the local config
func SubmoduleInitAction(ctx *runtime.Context, dir, path string) (*Success, error) {
	return withRepoLock(ctx, dir, func(handle git.RepositoryHandle) (*Success, error) {
		p, err := requireSafePath(path)
		if err != nil {
			return nil, err
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, "submodule", "init", "--", p)); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}

// SubmoduleUpdateAction checks out the recorded commit of one or all submodules
func SubmoduleUpdateAction(ctx *runtime.Context, opts SubmoduleUpdateOptions) (*Success, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		args := []string{"submodule", "update"}
		if opts.Init {
			args = append(args, "--init")
		}
		if opts.Recursive {
			args = append(args, "--recursive")
		}
		if trimmed(opts.Path) != "" {
			p, err := requireSafePath(opts.Path)
			if err != nil {
				return nil, err
			}
			args = append(args, "--", p)
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, args...)); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}
