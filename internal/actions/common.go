package actions

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gitcore.dev/gitcore/internal/config"
	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// Success is the body of actions that only report completion
type Success struct {
	Success bool `json:"success"`
}

func succeeded() *Success {
	return &Success{Success: true}
}

// AuthOptions carries optional HTTP credentials for network operations
type AuthOptions struct {
	Username string
	Password string
}

func (a AuthOptions) normalize() *git.HTTPAuth {
	return git.NormalizeHTTPAuth(a.Username, a.Password)
}

// resolveRepo validates dir and returns its handle
func resolveRepo(dir string) (git.RepositoryHandle, error) {
	if strings.TrimSpace(dir) == "" {
		return git.RepositoryHandle{}, gcerrors.NewValidationError("missing_directory", "directory is required")
	}
	handle, err := git.ResolveRepository(dir)
	if err != nil {
		return handle, gcerrors.NewValidationError("invalid_directory", err.Error())
	}
	info, err := os.Stat(handle.Dir)
	if err != nil || !info.IsDir() {
		return handle, gcerrors.NewValidationError("invalid_directory", "Directory does not exist").
			WithCategory(gcerrors.CategoryNotFound)
	}
	return handle, nil
}

// withRepoLock resolves dir and runs fn while holding the repository lock
func withRepoLock[T any](ctx *runtime.Context, dir string, fn func(handle git.RepositoryHandle) (T, error)) (T, error) {
	var zero T
	handle, err := resolveRepo(dir)
	if err != nil {
		return zero, err
	}
	release, err := ctx.Locks.Acquire(ctx.Context, handle.Key)
	if err != nil {
		ctx.Splog.Debug("lock busy for %s", handle.Key)
		return zero, err
	}
	defer release()
	return fn(handle)
}

// spawnFailure converts a runner error into the internal failure envelope
func spawnFailure(err error) error {
	var f *gcerrors.Failure
	if errors.As(err, &f) {
		return f
	}
	return gcerrors.NewInternalError("git_spawn_failed", err)
}

// runGit executes spec and maps a non-zero exit through the classifier
func runGit(ctx *runtime.Context, spec git.CommandSpec) (git.CommandResult, error) {
	result, err := ctx.Runner.Run(ctx.Context, spec)
	if err != nil {
		return result, spawnFailure(err)
	}
	if f := git.FailureFor(result); f != nil {
		return result, f
	}
	return result, nil
}

// runAuthenticated runs spec with the credential bridge when auth is set.
// The askpass script is removed before returning.
func runAuthenticated(ctx *runtime.Context, spec git.CommandSpec, auth *git.HTTPAuth) (git.CommandResult, error) {
	spec, ap, err := git.Authenticate(spec, auth)
	if err != nil {
		return git.CommandResult{}, err
	}
	defer closeAskpass(ctx, ap)
	return runGit(ctx, spec)
}

func closeAskpass(ctx *runtime.Context, ap *git.Askpass) {
	if err := ap.Close(); err != nil {
		ctx.Splog.Warn("failed to remove askpass script: %v", err)
	}
}

// trimmed returns s without surrounding whitespace
func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// rejectOptionLike fails when git would parse value as an option
func rejectOptionLike(field, value string) error {
	if strings.HasPrefix(value, "-") {
		return gcerrors.NewValidationError("invalid_"+field, fmt.Sprintf("%s must not start with '-'", field)).
			WithCategory(gcerrors.CategoryValidation)
	}
	return nil
}

// requireSafePath validates a repository-relative path argument
func requireSafePath(path string) (string, error) {
	p := trimmed(path)
	if p == "" {
		return "", gcerrors.NewValidationError("missing_path", "path is required")
	}
	if !git.IsSafeRelativePath(p) {
		return "", gcerrors.NewValidationError("invalid_path", "Invalid path")
	}
	return p, nil
}

// checkBranchProtection rejects work on branch when protection is enforced and
// the branch requires a new branch. message is formatted with the branch name.
func checkBranchProtection(ctx *runtime.Context, branch, message, hint string) error {
	if branch == "" || !ctx.Policy.EnforceBranchProtection() {
		return nil
	}
	mode, protected := ctx.Policy.ProtectionFor(branch)
	if !protected || mode != config.PromptAlwaysCommitToNewBranch {
		return nil
	}
	ctx.Splog.Debug("branch %s is protected (%s)", branch, mode)
	return gcerrors.NewPolicyError("git_branch_protected", fmt.Sprintf(message, branch), hint).
		WithField("branch", branch).
		WithField("promptMode", string(mode))
}

// withFallbackCode renames the classifier's catch-all code to a step-specific one
func withFallbackCode(err error, code string) error {
	var f *gcerrors.Failure
	if errors.As(err, &f) && f.Code == "git_failed" {
		f.Code = code
	}
	return err
}
