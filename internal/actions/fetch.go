package actions

import (
	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// FetchOptions contains options for the fetch action
type FetchOptions struct {
	Dir    string
	Remote string
	Branch string
	Ref    string
	All    bool
	Prune  bool
	Auth   AuthOptions
}

// FetchAction downloads objects and refs from one or all remotes
func FetchAction(ctx *runtime.Context, opts FetchOptions) (*Success, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		args, err := fetchArgs(opts)
		if err != nil {
			return nil, err
		}
		if _, err := runAuthenticated(ctx, git.Git(handle.Dir, args...), opts.Auth.normalize()); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}

func fetchArgs(opts FetchOptions) ([]string, error) {
	remote := trimmed(opts.Remote)
	branch := trimmed(opts.Branch)
	ref := trimmed(opts.Ref)
	for _, arg := range []struct{ field, value string }{{"remote", remote}, {"branch", branch}, {"ref", ref}} {
		if err := rejectOptionLike(arg.field, arg.value); err != nil {
			return nil, err
		}
	}

	args := []string{"fetch"}
	if opts.Prune {
		args = append(args, "--prune")
	}
	if opts.All {
		if remote != "" || branch != "" || ref != "" {
			return nil, gcerrors.NewValidationError("invalid_fetch_args", "remote/branch/ref are not allowed when all=true")
		}
		return append(args, "--all"), nil
	}

	if remote != "" {
		args = append(args, remote)
	}
	switch {
	case branch != "":
		if remote == "" {
			return nil, gcerrors.NewValidationError("missing_remote", "remote is required when branch is provided")
		}
		args = append(args, branch)
	case ref != "":
		if remote == "" {
			return nil, gcerrors.NewValidationError("missing_remote", "remote is required when ref is provided")
		}
		args = append(args, ref)
	}
	return args, nil
}
