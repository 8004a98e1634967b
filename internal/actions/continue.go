package actions

import (
	"gitcore.dev/gitcore/internal/runtime"
)

// noEditor keeps git from opening a commit message editor on --continue
var noEditor = []string{"-c", "core.editor=true"}

// ContinueAction resumes a paused rebase, cherry-pick or revert after conflicts are resolved
func ContinueAction(ctx *runtime.Context, opts SequencerOptions) (*Success, error) {
	return resumeSequencer(ctx, opts, noEditor, "--continue")
}

// SkipAction drops the current commit of a paused rebase, cherry-pick or revert
func SkipAction(ctx *runtime.Context, opts SequencerOptions) (*Success, error) {
	return resumeSequencer(ctx, opts, nil, "--skip")
}
