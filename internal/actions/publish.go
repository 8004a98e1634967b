package actions

import (
	"net/http"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// PublishOptions contains options for creating a GitHub repository from a local one
type PublishOptions struct {
	Dir string
	// Name defaults to the directory name.
	Name string
	// Remote defaults to origin.
	Remote string
	// Private defaults to true.
	Private *bool
	// View opens the new repository in a browser once it is pushed.
	View bool
}

// PublishResult describes the created repository and the pushed branch
type PublishResult struct {
	Success  bool   `json:"success"`
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	FullName string `json:"fullName"`
	Remote   string `json:"remote"`
	Branch   string `json:"branch"`
	CloneURL string `json:"cloneUrl"`
	HTMLURL  string `json:"htmlUrl"`
}

// PublishAction creates a GitHub repository for the authenticated user, adds it as
// a remote and pushes the current branch with upstream tracking.
func PublishAction(ctx *runtime.Context, opts PublishOptions) (*PublishResult, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*PublishResult, error) {
		return publish(ctx, handle, opts)
	})
}

func publish(ctx *runtime.Context, handle git.RepositoryHandle, opts PublishOptions) (*PublishResult, error) {
	dir := handle.Dir
	name := git.DeriveRepoName(handle.Key, opts.Name)
	if name == "" {
		return nil, gcerrors.NewValidationError("invalid_repo_name", "Unable to derive a valid repository name").
			WithHint("Pass a repository name with letters, numbers, '.', '_' or '-'.")
	}

	remote := trimmed(opts.Remote)
	if remote == "" {
		remote = "origin"
	}
	if !git.ValidRemoteName(remote) {
		return nil, gcerrors.NewValidationError("invalid_remote_name", "Invalid remote name").
			WithHint("Use a simple remote name like origin, upstream, or github.")
	}

	branch := git.CurrentBranch(ctx.Context, ctx.Runner, dir)
	if branch == "" {
		return nil, gcerrors.NewValidationError("git_detached_head", "Cannot publish from detached HEAD").
			WithHint("Checkout a branch first, then retry.")
	}

	client, err := ctx.GitHub(ctx.Context, dir)
	if err != nil {
		return nil, authRequired(err)
	}
	login, err := client.AuthenticatedLogin(ctx.Context)
	if err != nil {
		return nil, authRequired(err)
	}

	exists, err := git.RemoteExists(dir, remote)
	if err != nil {
		return nil, gcerrors.NewInternalError("git_remote_lookup_failed", err)
	}
	if exists {
		return nil, gcerrors.NewFailure(http.StatusConflict, "git_remote_exists", "Remote '"+remote+"' already exists").
			WithCategory(gcerrors.CategoryConflict).
			WithHint("Use Push, or choose a different remote name.")
	}

	private := true
	if opts.Private != nil {
		private = *opts.Private
	}
	created, err := client.CreateRepo(ctx.Context, name, private)
	if err != nil {
		return nil, gcerrors.NewValidationError("gh_repo_create_failed", err.Error()).
			WithHint("Check repository name/permissions and retry.")
	}
	ctx.Splog.Info("Created %s.", created.FullName)

	if _, err := runGit(ctx, git.Git(dir, "remote", "add", remote, created.CloneURL)); err != nil {
		return nil, withFallbackCode(err, "git_remote_add_failed")
	}
	if _, err := runGit(ctx, git.Git(dir, "push", "--set-upstream", remote, branch)); err != nil {
		return nil, withFallbackCode(err, "git_push_failed")
	}
	if opts.View && created.HTMLURL != "" {
		openBrowser(ctx, dir, created.HTMLURL)
	}

	return &PublishResult{
		Success:  true,
		Owner:    login,
		Repo:     name,
		FullName: created.FullName,
		Remote:   remote,
		Branch:   branch,
		CloneURL: created.CloneURL,
		HTMLURL:  created.HTMLURL,
	}, nil
}

func authRequired(err error) error {
	return gcerrors.NewFailure(http.StatusUnauthorized, "gh_auth_required", err.Error()).
		WithCategory(gcerrors.CategoryAuth).
		WithHint("Run `gh auth login` for github.com and retry.")
}
