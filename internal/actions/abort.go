package actions

import (
	"fmt"
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// SequencerOp names an operation that can stop half way for conflicts
type SequencerOp string

// Sequencer operations
const (
	OpMerge      SequencerOp = "merge"
	OpRebase     SequencerOp = "rebase"
	OpCherryPick SequencerOp = "cherry-pick"
	OpRevert     SequencerOp = "revert"
)

// ParseSequencerOp reads an operation name, accepting "cherrypick" and "cherry_pick"
func ParseSequencerOp(raw string) (SequencerOp, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	switch name {
	case "merge":
		return OpMerge, nil
	case "rebase":
		return OpRebase, nil
	case "cherry-pick", "cherrypick":
		return OpCherryPick, nil
	case "revert":
		return OpRevert, nil
	}
	return "", gcerrors.NewValidationError("invalid_operation", fmt.Sprintf("Unknown operation %q", raw)).
		WithHint("Use one of: merge, rebase, cherry-pick, revert.")
}

// SequencerOptions selects the paused operation to act on
type SequencerOptions struct {
	Dir string
	Op  SequencerOp
}

// AbortAction abandons a paused merge, rebase, cherry-pick or revert
func AbortAction(ctx *runtime.Context, opts SequencerOptions) (*Success, error) {
	return resumeSequencer(ctx, opts, nil, "--abort")
}

func resumeSequencer(ctx *runtime.Context, opts SequencerOptions, prefix []string, flag string) (*Success, error) {
	op, err := ParseSequencerOp(string(opts.Op))
	if err != nil {
		return nil, err
	}
	if op == OpMerge && flag != "--abort" {
		return nil, gcerrors.NewValidationError("invalid_operation", "merge does not support "+strings.TrimPrefix(flag, "--")).
			WithHint("Commit the resolved merge, or abort it.")
	}
	return withRepoLock(ctx, opts.Dir, func(handle git.RepositoryHandle) (*Success, error) {
		args := append(append([]string{}, prefix...), string(op), flag)
		if _, err := runGit(ctx, git.Git(handle.Dir, args...)); err != nil {
			return nil, err
		}
		return succeeded(), nil
	})
}
