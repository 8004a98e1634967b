// Package github provides a client for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
)

// ErrNotAuthenticated is returned when no usable GitHub token is available
var ErrNotAuthenticated = errors.New("not authenticated with GitHub")

// CreatedRepo describes a repository created on GitHub
type CreatedRepo struct {
	FullName string
	CloneURL string
	HTMLURL  string
}

// Client is an interface for GitHub API interactions
type Client interface {
	// AuthenticatedLogin returns the login of the user the token belongs to
	AuthenticatedLogin(ctx context.Context) (string, error)

	// CreateRepo creates a repository owned by the authenticated user
	CreateRepo(ctx context.Context, name string, private bool) (*CreatedRepo, error)
}

// ClientFactory builds a Client for a repository directory
type ClientFactory func(ctx context.Context, dir string) (Client, error)
