// Package errors provides sentinel errors and the structured failure type returned by
// every gitcore operation. Use errors.Is() and errors.As() to check for specific errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrRepoBusy indicates that another mutating operation holds the repository lock
	ErrRepoBusy = errors.New("repository busy")

	// ErrPolicyDenied indicates that a settings policy rejected the operation before git ran
	ErrPolicyDenied = errors.New("denied by policy")

	// ErrInvalidArgument indicates that the caller supplied invalid parameters
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrGitFailed indicates that git (or gpg) ran and exited with a non-zero status
	ErrGitFailed = errors.New("git command failed")

	// ErrInternal indicates an invocation-level problem such as a missing executable
	ErrInternal = errors.New("internal error")
)

// Failure categories shared by the classifier, telemetry and the error envelope.
const (
	CategoryValidation  = "validation"
	CategoryConflict    = "conflict"
	CategoryInteractive = "interactive"
	CategoryAuth        = "auth"
	CategoryNetwork     = "network"
	CategoryNotFound    = "not_found"
	CategorySafety      = "safety"
	CategoryTimeout     = "timeout"
	CategoryPolicy      = "policy"
	CategoryBusy        = "busy"
	CategoryInternal    = "internal"
	CategoryUnknown     = "unknown"
)

// Failure is the structured error envelope surfaced to callers.
// Status carries the HTTP-equivalent status of the failure.
type Failure struct {
	Status    int            `json:"-"`
	Message   string         `json:"error"`
	Code      string         `json:"code"`
	Hint      string         `json:"hint,omitempty"`
	Category  string         `json:"category,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
	ExitCode  *int           `json:"exitCode,omitempty"`
	Stdout    string         `json:"stdout,omitempty"`
	Stderr    string         `json:"stderr,omitempty"`
	Path      string         `json:"path,omitempty"`
	Fields    map[string]any `json:"-"`
}

func (e *Failure) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is maps a failure onto the sentinel that describes its class.
func (e *Failure) Is(target error) bool {
	switch target {
	case ErrRepoBusy:
		return e.Category == CategoryBusy
	case ErrPolicyDenied:
		return e.Category == CategoryPolicy
	case ErrInternal:
		return e.Category == CategoryInternal
	case ErrGitFailed:
		return e.ExitCode != nil
	case ErrInvalidArgument:
		return e.ExitCode == nil && e.Status == http.StatusBadRequest
	}
	return false
}

// WithHint sets the remediation hint and returns the failure.
func (e *Failure) WithHint(hint string) *Failure {
	e.Hint = hint
	return e
}

// WithCategory sets the category and returns the failure.
func (e *Failure) WithCategory(category string) *Failure {
	e.Category = category
	return e
}

// WithField attaches an extra envelope field (for example "branch" or "promptMode").
func (e *Failure) WithField(key string, value any) *Failure {
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	e.Fields[key] = value
	return e
}

// WithOutput attaches the exit code and the already redacted command output.
func (e *Failure) WithOutput(exitCode int, stdout, stderr string) *Failure {
	e.ExitCode = &exitCode
	e.Stdout = stdout
	e.Stderr = stderr
	return e
}

// Envelope renders the failure as the JSON object handed to clients.
func (e *Failure) Envelope() map[string]any {
	out := map[string]any{
		"error": e.Message,
		"code":  e.Code,
	}
	if e.Hint != "" {
		out["hint"] = e.Hint
	}
	if e.Category != "" {
		out["category"] = e.Category
		out["retryable"] = e.Retryable
	}
	if e.ExitCode != nil {
		out["exitCode"] = *e.ExitCode
		out["stdout"] = e.Stdout
		out["stderr"] = e.Stderr
	}
	if e.Path != "" {
		out["path"] = e.Path
	}
	for k, v := range e.Fields {
		out[k] = v
	}
	return out
}

// NewFailure creates a Failure with the given status, code and message
func NewFailure(status int, code, message string) *Failure {
	return &Failure{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a 400 failure for rejected caller input
func NewValidationError(code, message string) *Failure {
	return NewFailure(http.StatusBadRequest, code, message)
}

// NewPolicyError creates a 403 failure raised by a settings policy
func NewPolicyError(code, message, hint string) *Failure {
	return &Failure{
		Status:   http.StatusForbidden,
		Code:     code,
		Message:  message,
		Hint:     hint,
		Category: CategoryPolicy,
	}
}

// NewBusyError creates the failure returned when the repository lock cannot be acquired
func NewBusyError() *Failure {
	return &Failure{
		Status:    http.StatusConflict,
		Code:      "git_busy",
		Message:   "Repository is busy running another git operation",
		Hint:      "Wait for the current operation to finish, then retry.",
		Category:  CategoryBusy,
		Retryable: true,
	}
}

// NewInternalError creates a 500 failure for invocation-level problems
func NewInternalError(code string, err error) *Failure {
	msg := code
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	return &Failure{
		Status:   http.StatusInternalServerError,
		Code:     code,
		Message:  msg,
		Category: CategoryInternal,
	}
}

// AsFailure converts any error into a Failure. Errors that are not failures become
// internal failures with the given fallback code.
func AsFailure(err error, fallbackCode string) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return NewInternalError(fallbackCode, err)
}

// GitCommandError represents an executable that could not be started at all
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("failed to run %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrInternal
func (e *GitCommandError) Is(target error) bool {
	return target == ErrInternal
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
