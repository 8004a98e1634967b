package actions

import (
	"net/http"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// GpgKeysResult lists the secret keys gpg can sign with
type GpgKeysResult struct {
	Keys []git.GpgKey `json:"keys"`
}

// GpgPresetResult reports whether gpg-agent.conf was changed
type GpgPresetResult struct {
	Success bool `json:"success"`
	Changed bool `json:"changed"`
}

// GpgKeysAction lists secret keys with their keygrips
func GpgKeysAction(ctx *runtime.Context) (*GpgKeysResult, error) {
	keys, err := git.ListSecretKeys(ctx.Context, ctx.Runner)
	if err != nil {
		return nil, gcerrors.NewValidationError("gpg_keys_unavailable", "Failed to query GPG secret keys: "+err.Error()).
			WithHint("Ensure gpg is installed and your secret key exists on this machine.")
	}
	if keys == nil {
		keys = []git.GpgKey{}
	}
	return &GpgKeysResult{Keys: keys}, nil
}

// GpgEnablePresetAction allows passphrase presetting in gpg-agent and restarts it
func GpgEnablePresetAction(ctx *runtime.Context) (*GpgPresetResult, error) {
	changed, err := git.EnablePresetPassphrase(ctx.Context, ctx.Runner, ctx.HomeDir)
	if err != nil {
		return nil, gcerrors.NewFailure(http.StatusInternalServerError, "gpg_agent_config_failed", err.Error()).
			WithCategory(gcerrors.CategoryInternal)
	}
	if changed {
		ctx.Splog.Info("Enabled allow-preset-passphrase in %s.", git.AgentConfPath(ctx.HomeDir))
	}
	return &GpgPresetResult{Success: true, Changed: changed}, nil
}

// GpgDisableSigningAction turns off commit signing for the repository
func GpgDisableSigningAction(ctx *runtime.Context, dir string) (*Success, error) {
	return withRepoLock(ctx, dir, func(handle git.RepositoryHandle) (*Success, error) {
		if _, err := runGit(ctx, git.Git(handle.Dir, "config", "--local", "commit.gpgsign", "false")); err != nil {
			return nil, withFallbackCode(err, "git_config_failed")
		}
		return succeeded(), nil
	})
}

// GpgSetSigningKeyAction sets user.signingkey for the repository
func GpgSetSigningKeyAction(ctx *runtime.Context, dir, signingKey string) (*Success, error) {
	return withRepoLock(ctx, dir, func(handle git.RepositoryHandle) (*Success, error) {
		key := trimmed(signingKey)
		if key == "" {
			return nil, gcerrors.NewValidationError("missing_signing_key", "signingKey is required")
		}
		if err := rejectOptionLike("signing_key", key); err != nil {
			return nil, err
		}
		if _, err := runGit(ctx, git.Git(handle.Dir, "config", "--local", "user.signingkey", key)); err != nil {
			return nil, withFallbackCode(err, "git_config_failed")
		}
		return succeeded(), nil
	})
}
