package actions

import (
	"errors"
	"fmt"
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// CommitOptions contains options for the commit action
type CommitOptions struct {
	Dir     string
	Message string
	// Files are staged and committed when AddAll is false.
	Files         []string
	AddAll        bool
	NoVerify      bool
	Signoff       bool
	Amend         bool
	AllowEmpty    bool
	NoGpgSign     bool
	GpgPassphrase string
}

// CommitResult describes the commit that was created
type CommitResult struct {
	Success bool              `json:"success"`
	Commit  string            `json:"commit"`
	Branch  string            `json:"branch"`
	Summary git.ChangeSummary `json:"summary"`
}

// CommitAction stages the requested paths and records a commit
func CommitAction(ctx *runtime.Context, opts CommitOptions) (*CommitResult, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*CommitResult, error) {
		return commit(ctx, handle.Dir, opts)
	})
}

func commit(ctx *runtime.Context, dir string, opts CommitOptions) (*CommitResult, error) {
	message := trimmed(opts.Message)
	if message == "" {
		return nil, gcerrors.NewValidationError("missing_message", "message is required")
	}
	if opts.NoVerify && !ctx.Policy.AllowNoVerifyCommit() {
		return nil, gcerrors.NewPolicyError("git_no_verify_not_allowed",
			"Commits without verification are disabled by policy",
			"Enable gitAllowNoVerifyCommit in settings if this is intentional.")
	}
	if err := checkBranchProtection(ctx, git.CurrentBranch(ctx.Context, ctx.Runner, dir),
		"Branch '%s' is protected; commit on a new branch instead.",
		"Create a new branch and commit there, or change gitBranchProtectionPrompt in settings."); err != nil {
		return nil, err
	}

	if pass := trimmed(opts.GpgPassphrase); pass != "" {
		if err := presetSigningPassphrase(ctx, dir, pass); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(opts.Files))
	for _, f := range opts.Files {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	switch {
	case opts.AddAll:
		if _, err := runGit(ctx, git.Git(dir, "add", "-A")); err != nil {
			return nil, err
		}
	case len(files) > 0:
		if _, err := runGit(ctx, git.Git(dir, append([]string{"add", "--"}, files...)...)); err != nil {
			return nil, err
		}
	}

	args := []string{"commit"}
	if opts.NoVerify {
		args = append(args, "--no-verify")
	}
	if opts.Signoff {
		args = append(args, "--signoff")
	}
	if opts.Amend {
		args = append(args, "--amend")
	}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if opts.NoGpgSign {
		args = append(args, "--no-gpg-sign")
	}
	args = append(args, "-m", message)
	if !opts.AddAll && len(files) > 0 {
		args = append(args, "--")
		args = append(args, files...)
	}
	if _, err := runGit(ctx, git.Git(dir, args...)); err != nil {
		return nil, err
	}

	result := &CommitResult{
		Success: true,
		Commit:  git.HeadCommit(ctx.Context, ctx.Runner, dir),
	}
	if out, err := ctx.Runner.Run(ctx.Context, git.Git(dir, "rev-parse", "--abbrev-ref", "HEAD")); err == nil && out.Success() {
		result.Branch = strings.TrimSpace(out.Stdout)
	}
	if out, err := ctx.Runner.Run(ctx.Context, git.Git(dir, "show", "--shortstat", "--format=", "HEAD")); err == nil && out.Success() {
		result.Summary = git.ParseShortstat(out.Stdout)
	}
	ctx.Splog.Debug("committed %s on %s", result.Commit, result.Branch)
	return result, nil
}

// presetSigningPassphrase hands the passphrase to gpg-agent for the repository's
// signing key so a signed commit does not need a pinentry prompt.
func presetSigningPassphrase(ctx *runtime.Context, dir, passphrase string) error {
	signingKey, _ := git.ConfigGet(ctx.Context, ctx.Runner, dir, "--local", "user.signingkey")

	keys, err := git.ListSecretKeys(ctx.Context, ctx.Runner)
	if err != nil {
		return gcerrors.NewValidationError("gpg_keys_unavailable", fmt.Sprintf("Failed to query GPG secret keys: %v", err)).
			WithHint("Ensure gpg is installed and your secret key exists on this machine.")
	}
	if len(keys) == 0 {
		return gcerrors.NewValidationError("gpg_no_secret_key", "No GPG secret key with keygrip found").
			WithHint("Import your secret key and/or set user.signingkey in this repository.")
	}

	if err := git.PresetPassphrase(ctx.Context, ctx.Runner, keys, signingKey, passphrase); err != nil {
		msg := fmt.Sprintf("Failed to preset GPG passphrase: %v", err)
		if errors.Is(err, git.ErrNoSecretKey) || strings.Contains(strings.ToLower(err.Error()), "no gpg secret key") {
			return gcerrors.NewValidationError("gpg_no_secret_key", msg)
		}
		return gcerrors.NewValidationError("gpg_preset_failed", msg).
			WithHint("Your gpg-agent may not allow presetting passphrases. You can enable allow-preset-passphrase from the UI and retry.").
			WithField("canEnablePreset", true)
	}
	return nil
}
