package actions

import (
	"os"
	"path/filepath"
	"strings"

	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

const maxTemplateBytes = 64 * 1024

// CommitTemplateResult is the configured commit.template, if any
type CommitTemplateResult struct {
	Configured bool    `json:"configured"`
	Path       *string `json:"path"`
	Template   *string `json:"template"`
}

// CommitTemplateAction reads commit.template (local, then global). Missing,
// non-regular or oversized files report the path without contents.
func CommitTemplateAction(ctx *runtime.Context, dir string) (*CommitTemplateResult, error) {
	handle, err := resolveRepo(dir)
	if err != nil {
		return nil, err
	}

	raw, ok := git.ConfigGet(ctx.Context, ctx.Runner, handle.Dir, "--local", "commit.template")
	if !ok {
		raw, ok = git.ConfigGet(ctx.Context, ctx.Runner, handle.Dir, "--global", "commit.template")
	}
	if !ok {
		return &CommitTemplateResult{}, nil
	}

	path := strings.TrimSpace(raw)
	if !filepath.IsAbs(path) {
		path = filepath.Join(handle.Dir, path)
	}
	result := &CommitTemplateResult{Configured: true, Path: &path}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxTemplateBytes {
		return result, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return result, nil
	}
	template := strings.TrimRight(string(content), " \t\r\n")
	result.Template = &template
	return result, nil
}
