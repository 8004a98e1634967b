package actions

import (
	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// PullOptions contains options for the pull action
type PullOptions struct {
	Dir    string
	Remote string
	Branch string
	Ref    string
	Rebase bool
	Auth   AuthOptions
}

// PullResult reports the diffstat of a pull
type PullResult struct {
	Success    bool              `json:"success"`
	Summary    git.ChangeSummary `json:"summary"`
	Files      []string          `json:"files"`
	Insertions int               `json:"insertions"`
	Deletions  int               `json:"deletions"`
}

// PullAction fetches and integrates a remote branch into the current branch
func PullAction(ctx *runtime.Context, opts PullOptions) (*PullResult, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*PullResult, error) {
		remote := trimmed(opts.Remote)
		spec := trimmed(opts.Branch)
		if spec == "" {
			spec = trimmed(opts.Ref)
		}
		if err := rejectOptionLike("remote", remote); err != nil {
			return nil, err
		}
		if err := rejectOptionLike("branch", spec); err != nil {
			return nil, err
		}

		args := []string{"pull"}
		if opts.Rebase {
			args = append(args, "--rebase")
		}
		if spec != "" {
			if remote == "" {
				return nil, gcerrors.NewValidationError("missing_remote", "remote is required when branch is provided")
			}
			args = append(args, remote, spec)
		}
		args = append(args, "--stat")

		result, err := runAuthenticated(ctx, git.Git(handle.Dir, args...), opts.Auth.normalize())
		if err != nil {
			return nil, err
		}

		stat := git.ParsePullStat(result.Stdout)
		return &PullResult{
			Success: true,
			Summary: git.ChangeSummary{
				Changes:    len(stat.Files),
				Insertions: stat.Insertions,
				Deletions:  stat.Deletions,
			},
			Files:      stat.Files,
			Insertions: stat.Insertions,
			Deletions:  stat.Deletions,
		}, nil
	})
}
