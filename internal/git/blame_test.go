package git_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/testhelpers"
)

func TestParseBlamePorcelain(t *testing.T) {
	h1 := strings.Repeat("a", 40)
	h2 := strings.Repeat("b", 40)
	output := strings.Join([]string{
		h1 + " 1 1 2",
		"author Alice",
		"author-mail <alice@example.com>",
		"author-time 1700000000",
		"author-tz +0000",
		"summary first",
		"filename a.txt",
		"\tline one",
		h1 + " 2 2",
		"\t",
		h2 + " 3 3 1",
		"author Bob",
		"author-mail <bob@example.com>",
		"author-time 1700000100",
		"summary second",
		"filename a.txt",
		"\tline three",
		"",
	}, "\n")

	lines := git.ParseBlamePorcelain(output)
	require.Len(t, lines, 3)

	require.Equal(t, git.BlameLine{
		Line: 1, Hash: h1, Author: "Alice", AuthorEmail: "alice@example.com",
		AuthorTime: 1700000000, Summary: "first",
	}, lines[0])
	// Metadata is only printed once per commit in plain porcelain output.
	require.Equal(t, 2, lines[1].Line)
	require.Equal(t, "Alice", lines[1].Author)
	require.Equal(t, "first", lines[1].Summary)
	require.Equal(t, git.BlameLine{
		Line: 3, Hash: h2, Author: "Bob", AuthorEmail: "bob@example.com",
		AuthorTime: 1700000100, Summary: "second",
	}, lines[2])
}

func TestParseBlamePorcelainDegrades(t *testing.T) {
	require.Empty(t, git.ParseBlamePorcelain(""))
	require.NotNil(t, git.ParseBlamePorcelain("garbage\n\tcontent without header"))

	h := strings.Repeat("c", 40)
	lines := git.ParseBlamePorcelain(h + " 1 1\nauthor-time soon\n\tx\n")
	require.Len(t, lines, 1)
	require.Zero(t, lines[0].AuthorTime)
}

func TestBlameEndToEnd(t *testing.T) {
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		return s.Repo.CommitFile("a.txt", "one\ntwo\nthree\n", "add a")
	})
	head, err := scene.Repo.GetRevision("HEAD")
	require.NoError(t, err)

	res, err := quietRunner().Run(context.Background(), git.Git(scene.Dir, "blame", "--line-porcelain", "--", "a.txt"))
	require.NoError(t, err)
	require.True(t, res.Success(), res.Stderr)

	lines := git.ParseBlamePorcelain(res.Stdout)
	require.Len(t, lines, 3)
	for i, l := range lines {
		require.Equal(t, i+1, l.Line)
		require.Equal(t, head, l.Hash)
		require.Equal(t, "Test User", l.Author)
		require.Equal(t, "test@example.com", l.AuthorEmail)
		require.Equal(t, "add a", l.Summary)
		require.NotZero(t, l.AuthorTime)
	}
}

func TestBlameMissingPath(t *testing.T) {
	require.True(t, git.IsBlameMissingPath("", "fatal: no such path 'new.txt' in HEAD"))
	require.False(t, git.IsBlameMissingPath("", "fatal: bad revision"))

	lines := git.UncommittedBlame("a\nb\nc")
	require.Len(t, lines, 3)
	for i, l := range lines {
		require.Equal(t, i+1, l.Line)
		require.Equal(t, git.UncommittedHash, l.Hash)
		require.Equal(t, git.UncommittedAuthor, l.Author)
		require.Equal(t, git.UncommittedSummary, l.Summary)
	}

	require.Len(t, git.UncommittedBlame("a\nb\nc\n"), 3)
	require.Empty(t, git.UncommittedBlame(""))
}
