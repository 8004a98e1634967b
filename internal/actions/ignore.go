package actions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// IgnoreResult reports the .gitignore entry for a path
type IgnoreResult struct {
	Success bool   `json:"success"`
	Added   bool   `json:"added"`
	Path    string `json:"path"`
}

// IgnoreAction appends path to the .gitignore of dir unless an identical entry
// exists. Directories are written with a trailing slash.
func IgnoreAction(ctx *runtime.Context, dir, path string) (*IgnoreResult, error) {
	return withRepoLock(ctx, dir, func(handle git.RepositoryHandle) (*IgnoreResult, error) {
		raw, err := requireSafePath(path)
		if err != nil {
			return nil, err
		}
		entry, ok := git.NormalizeIgnoreEntry(raw)
		if !ok {
			return nil, gcerrors.NewValidationError("invalid_path", "Invalid path")
		}
		if info, err := os.Stat(filepath.Join(handle.Dir, entry)); err == nil && info.IsDir() && !strings.HasSuffix(entry, "/") {
			entry += "/"
		}

		ignorePath := filepath.Join(handle.Dir, ".gitignore")
		existing, err := os.ReadFile(ignorePath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, gcerrors.NewInternalError("gitignore_write_failed", err)
		}
		for _, line := range strings.Split(string(existing), "\n") {
			if strings.TrimSpace(line) == entry {
				return &IgnoreResult{Success: true, Added: false, Path: entry}, nil
			}
		}

		next := string(existing)
		if next != "" && !strings.HasSuffix(next, "\n") {
			next += "\n"
		}
		next += entry + "\n"
		if err := os.WriteFile(ignorePath, []byte(next), 0o644); err != nil {
			return nil, gcerrors.NewInternalError("gitignore_write_failed", err)
		}
		ctx.Splog.Debug("added %s to %s", entry, ignorePath)
		return &IgnoreResult{Success: true, Added: true, Path: entry}, nil
	})
}
