package git_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/git"
)

func TestParseStatusPorcelainZ(t *testing.T) {
	raw := "## main...origin/main [ahead 2, behind 1]\x00" +
		"M  staged.txt\x00" +
		" M unstaged.txt\x00" +
		"R  new.txt\x00old.txt\x00" +
		"?? untracked.txt\x00" +
		"UU conflict.txt\x00" +
		"!! ignored.log\x00"

	header, files := git.ParseStatusPorcelain(raw)
	require.Equal(t, git.StatusHeader{Current: "main", Tracking: "origin/main", Ahead: 2, Behind: 1}, header)
	require.Equal(t, []git.StatusFile{
		{Path: "conflict.txt", Index: "U", WorkingDir: "U"},
		{Path: "new.txt", OrigPath: "old.txt", Index: "R", WorkingDir: ""},
		{Path: "staged.txt", Index: "M", WorkingDir: ""},
		{Path: "unstaged.txt", Index: "", WorkingDir: "M"},
		{Path: "untracked.txt", Index: "?", WorkingDir: "?"},
	}, files)
}

func TestParseStatusPorcelainText(t *testing.T) {
	header, files := git.ParseStatusPorcelain("## No commits yet on main\n?? a.txt\nR  old.txt -> new.txt\n")
	require.Equal(t, "main", header.Current)
	require.Empty(t, header.Tracking)
	require.Equal(t, []git.StatusFile{
		{Path: "a.txt", Index: "?", WorkingDir: "?"},
		{Path: "new.txt", OrigPath: "old.txt", Index: "R"},
	}, files)

	header, files = git.ParseStatusPorcelain("## HEAD (no branch)\n")
	require.Equal(t, "HEAD", header.Current)
	require.Empty(t, files)

	header, _ = git.ParseStatusPorcelain("## feature\n")
	require.Equal(t, git.StatusHeader{Current: "feature"}, header)

	header, files = git.ParseStatusPorcelain("")
	require.Equal(t, git.StatusHeader{}, header)
	require.NotNil(t, files)
}

func TestStatusFileScopes(t *testing.T) {
	both := git.StatusFile{Path: "a", Index: "M", WorkingDir: "M"}
	require.True(t, both.IsStaged())
	require.True(t, both.IsUnstaged())
	require.False(t, both.IsMerge())

	for _, f := range []git.StatusFile{
		{Index: "A", WorkingDir: "A"},
		{Index: "D", WorkingDir: "D"},
		{Index: "U", WorkingDir: "D"},
	} {
		require.True(t, f.IsMerge(), "%+v", f)
		require.False(t, f.IsStaged(), "%+v", f)
		require.False(t, f.IsUnstaged(), "%+v", f)
	}

	untracked := git.StatusFile{Index: "?", WorkingDir: "?"}
	require.True(t, untracked.IsUntracked())
	require.False(t, untracked.IsStaged())
	require.False(t, untracked.IsUnstaged())
}

func TestParseNumstat(t *testing.T) {
	stats := map[string]git.DiffStat{"a.txt": {Insertions: 1, Deletions: 1}}
	git.ParseNumstat("3\t1\ta.txt\n-\t-\tbin.png\n\nbroken line\n", stats)

	require.Equal(t, map[string]git.DiffStat{
		"a.txt":   {Insertions: 4, Deletions: 2},
		"bin.png": {},
	}, stats)
}

func TestParseShortstat(t *testing.T) {
	require.Equal(t, git.ChangeSummary{Changes: 3, Insertions: 10, Deletions: 2},
		git.ParseShortstat(" 3 files changed, 10 insertions(+), 2 deletions(-)\n"))
	require.Equal(t, git.ChangeSummary{Changes: 1, Insertions: 1},
		git.ParseShortstat(" 1 file changed, 1 insertion(+)"))
	require.Equal(t, git.ChangeSummary{}, git.ParseShortstat(""))
}

func TestParsePullStat(t *testing.T) {
	raw := "Updating 1111111..2222222\nFast-forward\n" +
		" a.txt    |  2 +-\n" +
		" dir/b.go | 10 ++++++++++\n" +
		" 2 files changed, 11 insertions(+), 1 deletion(-)\n"

	require.Equal(t, git.PullStat{
		Files:      []string{"a.txt", "dir/b.go"},
		Insertions: 11,
		Deletions:  1,
	}, git.ParsePullStat(raw))

	require.Equal(t, git.PullStat{Files: []string{}}, git.ParsePullStat("Already up to date.\n"))
}
