package runtime

import (
	"context"
	"errors"
	"os"

	"gitcore.dev/gitcore/internal/config"
	"gitcore.dev/gitcore/internal/git"
	"gitcore.dev/gitcore/internal/github"
	"gitcore.dev/gitcore/internal/output"
)

// Context provides the shared dependencies of every operation
type Context struct {
	context.Context

	Splog     *output.Splog
	Runner    git.Runner
	Locks     *git.LockManager
	Policy    *config.Policy
	Settings  *config.FileStore
	GitHub    github.ClientFactory
	LookupEnv func(string) (string, bool)
	// HomeDir locates ~/.gnupg for the preset passphrase setting.
	HomeDir string
}

// NewContext wires the production dependencies: the process runner, the
// process-wide lock registry, the settings file and the GitHub REST client.
func NewContext(ctx context.Context, splog *output.Splog) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if splog == nil {
		splog = output.NewSplog()
	}
	logger := splog.Logger()
	runner := git.NewCommandRunner(logger)
	settings := config.NewFileStore(config.DefaultSettingsPath(os.LookupEnv))
	home, _ := os.UserHomeDir()

	return &Context{
		Context:   ctx,
		Splog:     splog,
		Runner:    runner,
		Locks:     git.DefaultLocks(),
		Policy:    config.NewPolicy(settings, os.LookupEnv, logger),
		Settings:  settings,
		GitHub:    github.Factory(runner),
		LookupEnv: os.LookupEnv,
		HomeDir:   home,
	}
}

// WithContext returns a shallow copy bound to ctx
func (c *Context) WithContext(ctx context.Context) *Context {
	cp := *c
	cp.Context = ctx
	return &cp
}

type contextKey struct{}

// Attach returns a copy of parent that carries c
func Attach(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, contextKey{}, c)
}

// GetContext returns the Context attached to ctx
func GetContext(ctx context.Context) (*Context, error) {
	if ctx == nil {
		return nil, errors.New("runtime context not initialized")
	}
	c, ok := ctx.Value(contextKey{}).(*Context)
	if !ok || c == nil {
		return nil, errors.New("runtime context not initialized")
	}
	return c, nil
}
