package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/runtime"
)

// Status paging defaults
const (
	DefaultStatusLimit = 200
	MaxStatusLimit     = 500
	// maxEstimateBytes bounds files read to estimate insertions of new files
	maxEstimateBytes = 50 * 1024 * 1024
)

// Status scopes
const (
	ScopeAll       = "all"
	ScopeStaged    = "staged"
	ScopeUnstaged  = "unstaged"
	ScopeMerge     = "merge"
	ScopeUntracked = "untracked"
)

// unpublishedBases are tried in order to count commits of a branch without upstream
var unpublishedBases = []string{"origin/main", "origin/master", "main", "master"}

// StatusOptions contains options for the status action
type StatusOptions struct {
	Dir    string
	Scope  string
	Offset int
	// Limit defaults to DefaultStatusLimit when nil and is capped at MaxStatusLimit.
	Limit *int
	// Summary returns counts only.
	Summary          bool
	IncludeDiffStats bool
}

// StatusResult is a page of working tree changes plus branch tracking info
type StatusResult struct {
	Current        string                  `json:"current"`
	Tracking       *string                 `json:"tracking"`
	Ahead          int                     `json:"ahead"`
	Behind         int                     `json:"behind"`
	Files          []git.StatusFile        `json:"files"`
	IsClean        bool                    `json:"isClean"`
	TotalFiles     int                     `json:"totalFiles"`
	StagedCount    int                     `json:"stagedCount"`
	UnstagedCount  int                     `json:"unstagedCount"`
	UntrackedCount int                     `json:"untrackedCount"`
	MergeCount     int                     `json:"mergeCount"`
	Offset         int                     `json:"offset"`
	Limit          int                     `json:"limit"`
	HasMore        bool                    `json:"hasMore"`
	Scope          string                  `json:"scope"`
	DiffStats      map[string]git.DiffStat `json:"diffStats,omitempty"`
}

// StatusAction reports working tree changes, paged by scope
func StatusAction(ctx *runtime.Context, opts StatusOptions) (*StatusResult, error) {
	handle, err := resolveRepo(opts.Dir)
	if err != nil {
		return nil, err
	}
	dir := handle.Dir

	raw, err := runGit(ctx, git.Git(dir, "status", "--porcelain=v1", "-b", "-z"))
	if err != nil {
		return nil, err
	}
	header, files := git.ParseStatusPorcelain(raw.Stdout)

	res := &StatusResult{
		Current:    header.Current,
		Ahead:      header.Ahead,
		Behind:     header.Behind,
		TotalFiles: len(files),
		IsClean:    len(files) == 0,
	}
	if header.Tracking != "" {
		tracking := header.Tracking
		res.Tracking = &tracking
	}

	for _, f := range files {
		if f.IsStaged() {
			res.StagedCount++
		}
		if f.IsUnstaged() {
			res.UnstagedCount++
		}
		if f.IsUntracked() {
			res.UntrackedCount++
		}
		if f.IsMerge() {
			res.MergeCount++
		}
	}

	res.Scope = strings.ToLower(trimmed(opts.Scope))
	if res.Scope == "" {
		res.Scope = ScopeAll
	}
	scoped := filterScope(files, res.Scope)

	if !opts.Summary {
		res.Offset = max(opts.Offset, 0)
		res.Limit = DefaultStatusLimit
		if opts.Limit != nil {
			res.Limit = max(*opts.Limit, 0)
		}
		res.Limit = min(res.Limit, MaxStatusLimit)
	}
	res.Files = []git.StatusFile{}
	if res.Offset < len(scoped) {
		end := res.Offset + min(res.Limit, len(scoped)-res.Offset)
		res.Files = scoped[res.Offset:end]
		res.HasMore = end < len(scoped)
	}

	if opts.IncludeDiffStats && !opts.Summary && len(res.Files) > 0 {
		res.DiffStats = pageDiffStats(ctx, dir, res.Files)
	}

	// A detached HEAD has no branch to publish.
	if res.Tracking == nil && res.Current != "" && res.Current != "HEAD" {
		if ahead, ok := unpublishedCount(ctx, dir); ok {
			res.Ahead = ahead
			res.Behind = 0
		}
	}
	return res, nil
}

func filterScope(files []git.StatusFile, scope string) []git.StatusFile {
	var keep func(git.StatusFile) bool
	switch scope {
	case ScopeStaged:
		keep = git.StatusFile.IsStaged
	case ScopeUnstaged:
		keep = git.StatusFile.IsUnstaged
	case ScopeMerge:
		keep = git.StatusFile.IsMerge
	case ScopeUntracked:
		keep = git.StatusFile.IsUntracked
	default:
		return files
	}
	out := make([]git.StatusFile, 0, len(files))
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// pageDiffStats returns line counts for the files of one page. New files that
// numstat cannot count are estimated from their contents.
func pageDiffStats(ctx *runtime.Context, dir string, page []git.StatusFile) map[string]git.DiffStat {
	stats := map[string]git.DiffStat{}
	paths := make([]string, 0, len(page))
	seen := map[string]bool{}
	for _, f := range page {
		p := strings.TrimSpace(f.Path)
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	if len(paths) > 0 {
		for _, base := range [][]string{{"diff", "--cached", "--numstat", "--"}, {"diff", "--numstat", "--"}} {
			args := append(append([]string{}, base...), paths...)
			if out, err := ctx.Runner.Run(ctx.Context, git.Git(dir, args...)); err == nil {
				git.ParseNumstat(out.Stdout, stats)
			}
		}
	}

	for _, f := range page {
		code := f.WorkingDir
		if code == "" {
			code = f.Index
		}
		if code != "?" && code != "A" {
			continue
		}
		if existing, ok := stats[f.Path]; ok && existing.Insertions > 0 {
			continue
		}
		if stat, ok := estimateNewFile(filepath.Join(dir, f.Path)); ok {
			stats[f.Path] = stat
		}
	}

	for path := range stats {
		if !seen[path] {
			delete(stats, path)
		}
	}
	return stats
}

// estimateNewFile counts the lines of a file git has no numstat for yet.
// Binary files count as zero.
func estimateNewFile(path string) (git.DiffStat, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxEstimateBytes {
		return git.DiffStat{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return git.DiffStat{}, false
	}
	if bytes.IndexByte(data, 0) >= 0 || len(data) == 0 {
		return git.DiffStat{}, true
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}
	return git.DiffStat{Insertions: lines}, true
}

// unpublishedCount counts commits on HEAD missing from the default branch
func unpublishedCount(ctx *runtime.Context, dir string) (int, bool) {
	candidates := make([]string, 0, len(unpublishedBases)+1)
	if out, err := ctx.Runner.Run(ctx.Context, git.Git(dir, "symbolic-ref", "-q", "refs/remotes/origin/HEAD")); err == nil && out.Success() {
		if ref := strings.TrimSpace(out.Stdout); ref != "" {
			candidates = append(candidates, strings.Replace(ref, "refs/remotes/", "", 1))
		}
	}
	candidates = append(candidates, unpublishedBases...)

	for _, base := range candidates {
		out, err := ctx.Runner.Run(ctx.Context, git.Git(dir, "rev-parse", "--verify", base))
		if err != nil || !out.Success() || strings.TrimSpace(out.Stdout) == "" {
			continue
		}
		count, err := ctx.Runner.Run(ctx.Context, git.Git(dir, "rev-list", "--count", base+"..HEAD"))
		if err != nil || !count.Success() {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(count.Stdout))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
