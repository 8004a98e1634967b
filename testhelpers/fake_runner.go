package testhelpers

import (
	"context"
	"strings"
	"sync"

	"gitcore.dev/gitcore/internal/git"
)

type fakeRule struct {
	pattern   string
	result    git.CommandResult
	err       error
	remaining int // -1 for unlimited
}

// FakeRunner is a scripted git.Runner. Each call is matched against the
// registered rules in order; a rule matches when the joined program and
// arguments contain its pattern. Unmatched calls succeed with empty output.
type FakeRunner struct {
	mu    sync.Mutex
	rules []*fakeRule
	calls []git.CommandSpec
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On answers every call matching pattern with result.
func (f *FakeRunner) On(pattern string, result git.CommandResult) *FakeRunner {
	return f.add(pattern, result, nil, -1)
}

// Once answers the next call matching pattern with result.
func (f *FakeRunner) Once(pattern string, result git.CommandResult) *FakeRunner {
	return f.add(pattern, result, nil, 1)
}

// FailStart makes calls matching pattern fail to start with err.
func (f *FakeRunner) FailStart(pattern string, err error) *FakeRunner {
	return f.add(pattern, git.CommandResult{}, err, -1)
}

func (f *FakeRunner) add(pattern string, result git.CommandResult, err error, times int) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &fakeRule{pattern: pattern, result: result, err: err, remaining: times})
	return f
}

// Run implements git.Runner.
func (f *FakeRunner) Run(_ context.Context, spec git.CommandSpec) (git.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, spec)
	line := commandLine(spec)
	for _, rule := range f.rules {
		if rule.remaining == 0 || !strings.Contains(line, rule.pattern) {
			continue
		}
		if rule.remaining > 0 {
			rule.remaining--
		}
		return rule.result, rule.err
	}
	return git.CommandResult{}, nil
}

// Calls returns every spec passed to Run, in order.
func (f *FakeRunner) Calls() []git.CommandSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]git.CommandSpec(nil), f.calls...)
}

// Commands returns the command line of every call, in order.
func (f *FakeRunner) Commands() []string {
	calls := f.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, commandLine(c))
	}
	return out
}

// Count returns how many calls contained pattern.
func (f *FakeRunner) Count(pattern string) int {
	n := 0
	for _, line := range f.Commands() {
		if strings.Contains(line, pattern) {
			n++
		}
	}
	return n
}

func commandLine(spec git.CommandSpec) string {
	program := spec.Program
	if program == "" {
		program = "git"
	}
	return strings.TrimSpace(program + " " + strings.Join(spec.Args, " "))
}

// Ok is a successful result with stdout.
func Ok(stdout string) git.CommandResult {
	return git.CommandResult{Stdout: stdout}
}

// Fail is a failed result with the given exit code and stderr.
func Fail(exitCode int, stderr string) git.CommandResult {
	return git.CommandResult{ExitCode: exitCode, Stderr: stderr}
}
