package testhelpers

import (
	"context"
	"fmt"
	"sync"

	githubpkg "gitcore.dev/gitcore/internal/github"
)

// MockGitHubClient implements githubpkg.Client in memory
type MockGitHubClient struct {
	mu sync.Mutex

	Login string
	// AuthErr is returned by AuthenticatedLogin when set
	AuthErr error
	// CreateErr is returned by CreateRepo when set
	CreateErr error
	// CloneBase is the URL prefix of created repositories, for example a directory
	// holding bare repositories.
	CloneBase string

	Created []CreatedRepoCall
}

// CreatedRepoCall records one CreateRepo call
type CreatedRepoCall struct {
	Name    string
	Private bool
}

// NewMockGitHubClient creates a client authenticated as login
func NewMockGitHubClient(login string) *MockGitHubClient {
	return &MockGitHubClient{Login: login, CloneBase: "https://github.com/" + login}
}

// Factory returns a ClientFactory that always hands out this client
func (c *MockGitHubClient) Factory() githubpkg.ClientFactory {
	return func(context.Context, string) (githubpkg.Client, error) {
		return c, nil
	}
}

// AuthenticatedLogin returns the configured login
func (c *MockGitHubClient) AuthenticatedLogin(context.Context) (string, error) {
	if c.AuthErr != nil {
		return "", c.AuthErr
	}
	return c.Login, nil
}

// CreateRepo records the call and returns a repository under CloneBase
func (c *MockGitHubClient) CreateRepo(_ context.Context, name string, private bool) (*githubpkg.CreatedRepo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CreateErr != nil {
		return nil, c.CreateErr
	}
	c.Created = append(c.Created, CreatedRepoCall{Name: name, Private: private})
	return &githubpkg.CreatedRepo{
		FullName: fmt.Sprintf("%s/%s", c.Login, name),
		CloneURL: fmt.Sprintf("%s/%s.git", c.CloneBase, name),
		HTMLURL:  fmt.Sprintf("https://github.com/%s/%s", c.Login, name),
	}, nil
}
