package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 60 * time.Second

// TimeoutExitCode is the exit code reported for commands killed by the runner timeout
const TimeoutExitCode = 124

// TimeoutEnvVar overrides DefaultCommandTimeout, in milliseconds
const TimeoutEnvVar = "GITCORE_GIT_TIMEOUT_MS"

// killGracePeriod bounds how long Wait keeps draining pipes after a kill.
const killGracePeriod = 2 * time.Second

// hardenedEnv keeps git and its helpers from ever waiting on a terminal.
var hardenedEnv = []string{
	"GIT_TERMINAL_PROMPT=0",
	"GCM_INTERACTIVE=Never",
	"GIT_EDITOR=true",
	"EDITOR=true",
	"GPG_TTY=",
}

// CommandSpec describes a single subprocess invocation
type CommandSpec struct {
	Program string
	Args    []string
	Dir     string
	// Env holds KEY=VALUE overrides applied after the hardened environment.
	Env []string
	// Stdin is written to the process and then closed. Nil closes stdin immediately.
	Stdin   []byte
	Timeout time.Duration
}

// Git returns a spec running git with args in dir
func Git(dir string, args ...string) CommandSpec {
	return CommandSpec{Program: "git", Args: args, Dir: dir}
}

// WithEnv returns a copy of the spec with extra environment overrides
func (s CommandSpec) WithEnv(env ...string) CommandSpec {
	merged := make([]string, 0, len(s.Env)+len(env))
	merged = append(merged, s.Env...)
	s.Env = append(merged, env...)
	return s
}

// WithStdin returns a copy of the spec that feeds input on stdin
func (s CommandSpec) WithStdin(input []byte) CommandSpec {
	s.Stdin = input
	return s
}

// CommandResult is the outcome of a process that was started
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Elapsed  time.Duration
}

// Success reports whether the process exited with status 0
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// TimedOut reports whether the runner killed the process
func (r CommandResult) TimedOut() bool {
	return r.ExitCode == TimeoutExitCode
}

// Runner executes command specs. It returns an error only when the
// executable could not be started.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec) (CommandResult, error)
}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	logger    *slog.Logger
	lookupEnv func(string) (string, bool)
}

// NewCommandRunner creates a new CommandRunner that reports telemetry to logger
func NewCommandRunner(logger *slog.Logger) *CommandRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandRunner{logger: logger, lookupEnv: os.LookupEnv}
}

// ResolveTimeout returns the timeout configured through TimeoutEnvVar, or the default
func ResolveTimeout(lookupEnv func(string) (string, bool)) time.Duration {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	raw, ok := lookupEnv(TimeoutEnvVar)
	if !ok {
		return DefaultCommandTimeout
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ms <= 0 {
		return DefaultCommandTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

// Run executes the spec. The caller's context only carries values; cancellation of a
// started process is decided by the timeout alone.
func (r *CommandRunner) Run(ctx context.Context, spec CommandSpec) (CommandResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = ResolveTimeout(r.lookupEnv)
	}
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	program := spec.Program
	if program == "" {
		program = "git"
	}

	cmd := exec.CommandContext(runCtx, program, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(append(os.Environ(), hardenedEnv...), spec.Env...)
	if spec.Stdin != nil {
		cmd.Stdin = bytes.NewReader(spec.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	detach(cmd)
	cmd.WaitDelay = killGracePeriod

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return CommandResult{}, gcerrors.NewGitCommandError(program, spec.Args, "", "", err)
	}
	waitErr := cmd.Wait()

	result := CommandResult{
		ExitCode: exitCodeOf(cmd, waitErr),
		Stdout:   decode(stdout.Bytes()),
		Stderr:   decode(stderr.Bytes()),
		Elapsed:  time.Since(start),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = TimeoutExitCode
		result.Stderr = timeoutStderr(timeout, result.Stderr)
	}

	if program == "git" {
		r.emitTelemetry(ctx, spec.Args, result)
	}
	return result, nil
}

func exitCodeOf(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		if code := cmd.ProcessState.ExitCode(); code >= 0 {
			return code
		}
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}
	return 1
}

func timeoutStderr(timeout time.Duration, stderr string) string {
	msg := fmt.Sprintf("git command timed out after %dms", timeout.Milliseconds())
	if strings.TrimSpace(stderr) == "" {
		return msg
	}
	return msg + "\n" + stderr
}

// decode converts process output to a string, replacing invalid UTF-8 sequences.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
