package testhelpers

import (
	"context"
	"io"
	"testing"
	"time"

	"gitcore.dev/gitcore/internal/config"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/output"
	"gitcore.dev/gitcore/internal/runtime"
)

// ContextOption customizes a test runtime.Context
type ContextOption func(*runtime.Context)

// WithSettings replaces the settings policy with fixed values
func WithSettings(values map[string]any) ContextOption {
	return func(c *runtime.Context) {
		c.Policy = config.NewPolicy(config.NewStaticStore(values), c.LookupEnv, c.Splog.Logger())
	}
}

// WithGitHub hands out client for every GitHub request
func WithGitHub(client *MockGitHubClient) ContextOption {
	return func(c *runtime.Context) {
		c.GitHub = client.Factory()
	}
}

// WithLocks replaces the lock registry
func WithLocks(locks *git.LockManager) ContextOption {
	return func(c *runtime.Context) {
		c.Locks = locks
	}
}

// NewTestContext builds a runtime.Context around runner with quiet logging, an
// empty settings store, a private lock registry and an isolated home directory.
// A nil runner uses the real process runner.
func NewTestContext(t *testing.T, runner git.Runner, opts ...ContextOption) *runtime.Context {
	t.Helper()

	splog, err := output.NewSplogWithOptions(output.SplogOptions{Console: io.Discard})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if runner == nil {
		runner = git.NewCommandRunner(splog.Logger())
	}
	noEnv := func(string) (string, bool) { return "", false }

	c := &runtime.Context{
		Context:   context.Background(),
		Splog:     splog,
		Runner:    runner,
		Locks:     git.NewLockManager(2 * time.Second),
		Policy:    config.NewPolicy(config.NewStaticStore(nil), noEnv, splog.Logger()),
		GitHub:    NewMockGitHubClient("octocat").Factory(),
		LookupEnv: noEnv,
		HomeDir:   t.TempDir(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
