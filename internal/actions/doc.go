// Package actions implements the repository operations exposed by gitcore.
//
// Each action resolves the repository, takes the per-repository lock when it
// mutates state, applies settings policy and then drives the git executable
// through runtime.Context.Runner.
//
// Key patterns:
//   - Actions accept runtime.Context which provides the runner, locks, policy and Splog
//   - Failures are returned as *errors.Failure carrying the client envelope
//   - Read-only actions (blame, status, stash list, submodule list, gpg keys) never lock
package actions
