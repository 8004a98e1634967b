package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	mu sync.Mutex

	// Login is returned by GET /user
	Login string
	// Token is the bearer token requests must carry; empty accepts any token
	Token string
	// CreatedRepos stores repositories created through POST /user/repos
	CreatedRepos []*github.Repository
	// ErrorResponses maps "METHOD path" to a status code returned instead of the default
	ErrorResponses map[string]int
	// Requests records "METHOD path" for each request served
	Requests []string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Login:          "octocat",
		ErrorResponses: make(map[string]int),
	}
}

// Created returns a snapshot of the repositories created so far
func (c *MockGitHubServerConfig) Created() []*github.Repository {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*github.Repository(nil), c.CreatedRepos...)
}

// NewMockGitHubServer creates an httptest server that mocks the user and
// repository creation endpoints of the GitHub REST API
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	mux := http.NewServeMux()

	guard := func(w http.ResponseWriter, r *http.Request) bool {
		key := r.Method + " " + r.URL.Path
		config.mu.Lock()
		config.Requests = append(config.Requests, key)
		status, hasError := config.ErrorResponses[key]
		config.mu.Unlock()

		if config.Token != "" && r.Header.Get("Authorization") != "Bearer "+config.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return false
		}
		if hasError {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return false
		}
		return true
	}

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !guard(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, &github.User{Login: github.String(config.Login)})
	})

	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !guard(w, r) {
			return
		}

		var req github.Repository
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		name := req.GetName()
		if name == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "name is required"})
			return
		}

		created := &github.Repository{
			Name:     github.String(name),
			FullName: github.String(fmt.Sprintf("%s/%s", config.Login, name)),
			Private:  github.Bool(req.GetPrivate()),
			CloneURL: github.String(fmt.Sprintf("https://github.com/%s/%s.git", config.Login, name)),
			HTMLURL:  github.String(fmt.Sprintf("https://github.com/%s/%s", config.Login, name)),
		}
		config.mu.Lock()
		config.CreatedRepos = append(config.CreatedRepos, created)
		config.mu.Unlock()
		writeJSON(w, http.StatusCreated, created)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}

// NewMockGitHubAPIClient creates a go-github client configured to use a mock server
func NewMockGitHubAPIClient(t *testing.T, config *MockGitHubServerConfig) *github.Client {
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
