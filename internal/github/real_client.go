package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"gitcore.dev/gitcore/internal/git"
)

// TokenEnvVar is checked before falling back to the gh CLI
const TokenEnvVar = "GITHUB_TOKEN"

// HostEnvVar selects a GitHub Enterprise host instead of github.com
const HostEnvVar = "GH_HOST"

const ghTimeout = 45 * time.Second

// RealClient implements Client using the GitHub REST API
type RealClient struct {
	client *github.Client
}

// NewRealClient creates a RealClient authenticated with a token from the
// environment or the gh CLI.
func NewRealClient(ctx context.Context, runner git.Runner, dir string) (*RealClient, error) {
	token, err := LookupToken(ctx, runner, dir, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.LookupEnv(HostEnvVar)
	client, err := newGitHubClient(ctx, hostname, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return &RealClient{client: client}, nil
}

// Factory returns a ClientFactory producing RealClients that look up tokens with runner
func Factory(runner git.Runner) ClientFactory {
	return func(ctx context.Context, dir string) (Client, error) {
		return NewRealClient(ctx, runner, dir)
	}
}

// AuthenticatedLogin returns the login of the token owner
func (c *RealClient) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, resp, err := c.client.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return "", fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
		}
		return "", fmt.Errorf("failed to read authenticated user: %w", err)
	}
	login := strings.TrimSpace(user.GetLogin())
	if login == "" {
		return "", ErrNotAuthenticated
	}
	return login, nil
}

// CreateRepo creates a repository for the authenticated user
func (c *RealClient) CreateRepo(ctx context.Context, name string, private bool) (*CreatedRepo, error) {
	repo, _, err := c.client.Repositories.Create(ctx, "", &github.Repository{
		Name:    github.String(name),
		Private: github.Bool(private),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return &CreatedRepo{
		FullName: repo.GetFullName(),
		CloneURL: repo.GetCloneURL(),
		HTMLURL:  repo.GetHTMLURL(),
	}, nil
}

// LookupToken returns GITHUB_TOKEN when set, otherwise the output of `gh auth token`.
func LookupToken(ctx context.Context, runner git.Runner, dir string, lookupEnv func(string) (string, bool)) (string, error) {
	if token, ok := lookupEnv(TokenEnvVar); ok && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token), nil
	}

	result, err := runner.Run(ctx, git.CommandSpec{
		Program: "gh",
		Args:    []string{"auth", "token"},
		Dir:     dir,
		Env:     []string{"GH_PROMPT_DISABLED=1"},
		Timeout: ghTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	token := strings.TrimSpace(result.Stdout)
	if !result.Success() || token == "" {
		msg := strings.TrimSpace(result.Stderr)
		if msg == "" {
			msg = "empty GitHub token"
		}
		return "", fmt.Errorf("%w: %s", ErrNotAuthenticated, msg)
	}
	return token, nil
}

func newGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	hostname = strings.TrimSpace(hostname)
	if hostname == "" || hostname == "github.com" {
		return client, nil
	}

	// GitHub Enterprise serves the REST API under /api/v3/
	baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
	}
	uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
	if err != nil {
		return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
	}
	client.BaseURL = baseURL
	client.UploadURL = uploadURL
	return client, nil
}

// IsNotAuthenticated reports whether err means the caller must log in first
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// NewRealClientFromAPI wraps an already configured go-github client
func NewRealClientFromAPI(client *github.Client) *RealClient {
	return &RealClient{client: client}
}
