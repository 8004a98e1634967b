package actions

import (
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// Force push modes
const (
	ForceNone      = ""
	ForcePush      = "force"
	ForceWithLease = "force-with-lease"
)

// noUpstreamMarkers appear in push output when the current branch has no upstream
var noUpstreamMarkers = []string{
	"has no upstream branch",
	"set the remote as upstream",
	"no upstream configured",
	"set upstream",
}

// PushOptions contains options for the push action
type PushOptions struct {
	Dir         string
	Remote      string
	Branch      string
	Ref         string
	Force       string
	Tags        bool
	FollowTags  bool
	SetUpstream bool
	Auth        AuthOptions
}

// PushResult is the body returned by a successful push
type PushResult struct {
	Success     bool     `json:"success"`
	Pushed      []string `json:"pushed"`
	Repo        string   `json:"repo"`
	Ref         *string  `json:"ref"`
	UpstreamSet bool     `json:"upstreamSet,omitempty"`
}

func suggestsNoUpstream(stdout, stderr string) bool {
	combined := strings.ToLower(stdout + "\n" + stderr)
	for _, marker := range noUpstreamMarkers {
		if strings.Contains(combined, marker) {
			return true
		}
	}
	return false
}

// PushAction publishes commits to a remote. A push that names no branch and fails
// because the current branch has no upstream is retried once with --set-upstream.
func PushAction(ctx *runtime.Context, opts PushOptions) (*PushResult, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*PushResult, error) {
		return push(ctx, handle.Dir, opts)
	})
}

func push(ctx *runtime.Context, dir string, opts PushOptions) (*PushResult, error) {
	remote := trimmed(opts.Remote)
	branch := trimmed(opts.Branch)
	ref := trimmed(opts.Ref)
	force := strings.ToLower(trimmed(opts.Force))
	for _, arg := range []struct{ field, value string }{{"remote", remote}, {"branch", branch}, {"ref", ref}} {
		if err := rejectOptionLike(arg.field, arg.value); err != nil {
			return nil, err
		}
	}

	if (force == ForcePush || force == ForceWithLease) && !ctx.Policy.AllowForcePush() {
		return nil, gcerrors.NewPolicyError("git_force_push_not_allowed",
			"Force push is disabled by policy",
			"Enable gitAllowForcePush in settings to allow force push operations.")
	}

	target := ref
	if target == "" {
		target = branch
	}

	// Tag-only pushes publish no branch.
	if !(opts.Tags && !opts.FollowTags && target == "") {
		policyBranch := git.LocalBranchFromRefspec(target)
		if policyBranch == "" {
			policyBranch = git.CurrentBranch(ctx.Context, ctx.Runner, dir)
		}
		if err := checkBranchProtection(ctx, policyBranch,
			"Branch '%s' is protected; push from a new branch instead.",
			"Create and push a feature branch, or change gitBranchProtectionPrompt in settings."); err != nil {
			return nil, err
		}
	}

	if target != "" && remote == "" {
		return nil, gcerrors.NewValidationError("missing_remote", "remote is required when branch is provided")
	}
	if opts.SetUpstream && remote == "" {
		return nil, gcerrors.NewValidationError("missing_remote", "remote is required when setUpstream is true")
	}

	args := []string{"push"}
	switch force {
	case ForceNone:
	case ForcePush:
		args = append(args, "--force")
	case ForceWithLease:
		args = append(args, "--force-with-lease")
	default:
		return nil, gcerrors.NewValidationError("invalid_force", "Invalid force mode")
	}
	if opts.Tags {
		args = append(args, "--tags")
	}
	if opts.FollowTags {
		args = append(args, "--follow-tags")
	}
	if opts.SetUpstream {
		args = append(args, "--set-upstream")
	}
	if remote != "" {
		args = append(args, remote)
	}
	switch {
	case target != "":
		args = append(args, target)
	case opts.SetUpstream:
		current := git.CurrentBranch(ctx.Context, ctx.Runner, dir)
		if current == "" {
			return nil, gcerrors.NewValidationError("git_detached_head", "Cannot set upstream from a detached HEAD")
		}
		args = append(args, current)
	}

	auth := opts.Auth.normalize()
	spec, ap, err := git.Authenticate(git.Git(dir, args...), auth)
	if err != nil {
		return nil, err
	}
	defer closeAskpass(ctx, ap)

	result, err := ctx.Runner.Run(ctx.Context, spec)
	if err != nil {
		return nil, spawnFailure(err)
	}
	if failure := git.FailureFor(result); failure != nil {
		if branch != "" || !suggestsNoUpstream(result.Stdout, result.Stderr) {
			return nil, failure
		}
		return publishUpstream(ctx, dir, remote, ap)
	}

	return &PushResult{Success: true, Pushed: []string{}, Repo: remote}, nil
}

// publishUpstream pushes the current branch with --set-upstream, reusing the
// credentials of the failed push.
func publishUpstream(ctx *runtime.Context, dir, remote string, ap *git.Askpass) (*PushResult, error) {
	current := git.CurrentBranch(ctx.Context, ctx.Runner, dir)
	if current == "" {
		return nil, gcerrors.NewValidationError("git_detached_head", "Cannot push from a detached HEAD").
			WithHint("Checkout a branch first, then retry push.")
	}
	if remote == "" {
		remote = "origin"
	}
	ctx.Splog.Info("No upstream for %s; publishing to %s.", current, remote)

	args := []string{"push", "--set-upstream", remote, current}
	spec := git.Git(dir, args...)
	if ap != nil {
		spec.Args = append(git.AuthArgs(), spec.Args...)
		spec = spec.WithEnv(ap.Env()...)
	}
	if _, err := runGit(ctx, spec); err != nil {
		return nil, err
	}
	return &PushResult{Success: true, Pushed: []string{}, Repo: remote, Ref: &current, UpstreamSet: true}, nil
}
