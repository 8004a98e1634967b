// Package git runs the git and gpg executables and interprets their output.
//
// It provides:
//   - A subprocess runner with a hardened, non-interactive environment and a hard timeout
//   - Per-repository locks that serialize mutating operations
//   - A temporary GIT_ASKPASS bridge for HTTPS credentials
//   - A classifier that maps git failures to stable error codes
//   - Parsers for blame, status, diffstat and .gitmodules output
//
// This package should be the only place where git commands are executed.
package git
