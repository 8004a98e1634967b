package git

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

// Environment variables read by the askpass script.
const (
	AskpassUsernameEnv = "GITCORE_ASKPASS_USERNAME"
	AskpassPasswordEnv = "GITCORE_ASKPASS_PASSWORD"
)

const askpassScript = `#!/usr/bin/env sh
set -e
prompt="$1"
case "$prompt" in
  *Username*|*username*) printf '%s' "${` + AskpassUsernameEnv + `:-}" ;;
  *) printf '%s' "${` + AskpassPasswordEnv + `:-}" ;;
esac
`

// HTTPAuth is a username/password pair handed to git over askpass
type HTTPAuth struct {
	Username string
	Password string
}

// NormalizeHTTPAuth trims the credentials and returns nil unless both are present.
func NormalizeHTTPAuth(username, password string) *HTTPAuth {
	u := strings.TrimSpace(username)
	p := strings.TrimSpace(password)
	if u == "" || p == "" {
		return nil
	}
	return &HTTPAuth{Username: u, Password: p}
}

// AuthArgs disables configured credential helpers for an authenticated invocation.
func AuthArgs() []string {
	return []string{"-c", "credential.helper="}
}

// Askpass is a temporary GIT_ASKPASS script owned by a single operation.
// Close removes it.
type Askpass struct {
	Path string
	auth HTTPAuth
}

// NewAskpass writes the askpass script to the temp dir. A write failure yields the
// git_auth_setup_failed failure.
func NewAskpass(auth HTTPAuth) (*Askpass, error) {
	return newAskpassIn(os.TempDir(), auth)
}

func newAskpassIn(dir string, auth HTTPAuth) (*Askpass, error) {
	path := filepath.Join(dir, fmt.Sprintf("gitcore-askpass-%s.sh", uuid.NewString()))
	if err := writeAskpass(path); err != nil {
		_ = os.Remove(path)
		return nil, gcerrors.NewFailure(http.StatusBadRequest, "git_auth_setup_failed",
			fmt.Sprintf("Failed to prepare git credentials: %v", err)).
			WithCategory(gcerrors.CategoryAuth)
	}
	return &Askpass{Path: path, auth: auth}, nil
}

func writeAskpass(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o700)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(askpassScript); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// The umask may have stripped the execute bit.
	return os.Chmod(path, 0o700)
}

// Env returns the variables that point git at the script.
func (a *Askpass) Env() []string {
	if a == nil {
		return nil
	}
	return []string{
		"GIT_ASKPASS=" + a.Path,
		AskpassUsernameEnv + "=" + a.auth.Username,
		AskpassPasswordEnv + "=" + a.auth.Password,
	}
}

// Close deletes the script. It is safe to call on a nil Askpass and more than once.
func (a *Askpass) Close() error {
	if a == nil || a.Path == "" {
		return nil
	}
	err := os.Remove(a.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Authenticate prepares spec for an authenticated git invocation. When auth is nil
// the spec is returned unchanged. The caller must Close the returned Askpass.
func Authenticate(spec CommandSpec, auth *HTTPAuth) (CommandSpec, *Askpass, error) {
	if auth == nil {
		return spec, nil, nil
	}
	ap, err := NewAskpass(*auth)
	if err != nil {
		return spec, nil, err
	}
	spec.Args = append(AuthArgs(), spec.Args...)
	return spec.WithEnv(ap.Env()...), ap, nil
}
