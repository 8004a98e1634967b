// Package testhelpers provides testing utilities for gitcore, including a scene
// system, Git repository helpers, a scripted runner and custom assertions.
package testhelpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

// RequireFailure asserts that err is a *Failure with the given code and returns it.
func RequireFailure(t *testing.T, err error, code string) *gcerrors.Failure {
	t.Helper()

	require.Error(t, err)
	var failure *gcerrors.Failure
	require.True(t, errors.As(err, &failure), "expected *errors.Failure, got %T: %v", err, err)
	require.Equal(t, code, failure.Code, "unexpected failure: %s", failure.Message)
	return failure
}

// ExpectCommits asserts that the newest commit subjects on branch match expected.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput("log", "--format=%s", branch)
	require.NoError(t, err, "Failed to list commits")

	commits := splitLines(output)
	if len(commits) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(commits))
		return
	}
	require.Equal(t, expected, commits[:len(expected)], "Commits do not match")
}
