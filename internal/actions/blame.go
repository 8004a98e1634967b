package actions

import (
	"os"
	"path/filepath"
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// BlameResult attributes each line of a file to a commit
type BlameResult struct {
	Lines []git.BlameLine `json:"lines"`
}

// BlameAction runs git blame for path relative to dir. Files not yet in HEAD are
// attributed to the working tree.
func BlameAction(ctx *runtime.Context, dir, path string) (*BlameResult, error) {
	handle, err := resolveRepo(dir)
	if err != nil {
		return nil, err
	}
	rel, err := requireSafePath(path)
	if err != nil {
		return nil, err
	}
	abs := filepath.Join(handle.Dir, rel)

	root, result, err := git.ShowToplevel(ctx.Context, ctx.Runner, filepath.Dir(abs))
	if err != nil {
		return nil, spawnFailure(err)
	}
	if f := git.FailureFor(result); f != nil {
		return nil, f
	}
	if resolved, err := git.CanonicalPath(root); err == nil {
		root = resolved
	}
	if resolved, err := git.CanonicalPath(abs); err == nil {
		abs = resolved
	}

	inRepo, err := filepath.Rel(root, abs)
	if err != nil || inRepo == ".." || strings.HasPrefix(inRepo, ".."+string(filepath.Separator)) || filepath.IsAbs(inRepo) {
		return nil, gcerrors.NewValidationError("invalid_path", "Path outside repo")
	}
	inRepo = filepath.ToSlash(inRepo)

	blame, err := ctx.Runner.Run(ctx.Context, git.Git(root, "blame", "--line-porcelain", "--", inRepo))
	if err != nil {
		return nil, spawnFailure(err)
	}
	if !blame.Success() {
		if git.IsBlameMissingPath(blame.Stdout, blame.Stderr) {
			content, readErr := os.ReadFile(abs)
			if readErr == nil {
				return &BlameResult{Lines: git.UncommittedBlame(string(content))}, nil
			}
		}
		return nil, git.FailureFor(blame)
	}
	return &BlameResult{Lines: git.ParseBlamePorcelain(blame.Stdout)}, nil
}
