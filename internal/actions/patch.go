package actions

import (
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// ApplyPatchOptions contains options for applying a unified diff
type ApplyPatchOptions struct {
	Dir   string
	Patch string
	// Mode is stage, unstage, discard (optionally suffixed -hunk or -selected),
	// apply or apply-3way. Blank means stage.
	Mode string
	// Target is file, hunk or selected.
	Target string
}

// ApplyPatchAction feeds a patch to git apply. When strict patch validation is
// enabled, stage/unstage/discard patches must hold exactly one file, and hunk or
// selection patches exactly one hunk.
func ApplyPatchAction(ctx *runtime.Context, opts ApplyPatchOptions) (*Success, error) {
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		// Trailing blanks can be context lines, so the patch is passed through as given.
		patch := opts.Patch
		if strings.TrimSpace(patch) == "" {
			return nil, gcerrors.NewValidationError("missing_patch", "patch is required")
		}
		if f := git.CheckPatchSize(patch); f != nil {
			return nil, f
		}
		if !git.PatchPathsAreSafe(patch) {
			return nil, gcerrors.NewValidationError("invalid_patch", "Invalid patch paths")
		}

		mode, ok := git.ParsePatchMode(opts.Mode)
		if !ok {
			return nil, gcerrors.NewValidationError("invalid_mode", "Invalid mode")
		}
		requested, ok := git.ParsePatchTarget(opts.Target)
		if !ok {
			return nil, git.PatchFailure("invalid_patch_target", "Invalid patch target", "Use one of: file, hunk, selected.")
		}
		target, ok := git.ResolvePatchTarget(mode, requested)
		if !ok {
			return nil, git.PatchFailure("patch_mode_target_mismatch", "Patch mode and target are inconsistent",
				"Use a matching mode/target pair (for example stage-selected + selected).")
		}

		if mode.Strict && ctx.Policy.StrictPatchValidation() {
			summary, failure := git.ValidatePatchHunks(patch)
			if failure != nil {
				return nil, failure
			}
			if summary.Files != 1 {
				return nil, git.PatchFailure("patch_requires_single_file", "Patch must target exactly one file",
					"Split multi-file patches into one request per file.")
			}
			if target != git.PatchTargetFile && summary.Hunks != 1 {
				return nil, git.PatchFailure("patch_requires_single_hunk", "Patch must target exactly one hunk",
					"Split multi-hunk patches into separate requests.")
			}
		}

		if _, err := runGit(ctx, git.NewPatchSpec(handle.Dir, mode, patch)); err != nil {
			return nil, err
		}
		ctx.Splog.Debug("applied %s patch (%s)", target, strings.Join(mode.Args(), " "))
		return succeeded(), nil
	})
}
