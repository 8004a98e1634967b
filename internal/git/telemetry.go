package git

import (
	"context"
	"slices"
	"strings"
)

// globalOptsWithValue are git global options that consume the following argument.
var globalOptsWithValue = map[string]bool{
	"-c":             true,
	"-C":             true,
	"--git-dir":      true,
	"--work-tree":    true,
	"--namespace":    true,
	"--super-prefix": true,
	"--config-env":   true,
}

// ParseSubcommand returns the git subcommand in args, skipping global options.
func ParseSubcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		token := strings.TrimSpace(args[i])
		switch {
		case token == "":
		case globalOptsWithValue[token]:
			i++
		case strings.HasPrefix(token, "-"):
		default:
			return token
		}
	}
	return ""
}

// OperationName maps git arguments to the telemetry operation name.
// It returns "" for invocations that are not reported.
func OperationName(args []string) string {
	switch sub := ParseSubcommand(args); sub {
	case "commit", "push", "pull", "fetch", "rebase", "merge", "cherry-pick", "revert":
		return sub
	case "add":
		return "stage"
	case "apply":
		reverse := slices.Contains(args, "--reverse")
		cached := slices.Contains(args, "--cached")
		switch {
		case reverse && cached:
			return "unstage"
		case reverse:
			return "discard"
		case cached:
			return "stage"
		default:
			return "patch"
		}
	}
	return ""
}

func (r *CommandRunner) emitTelemetry(ctx context.Context, args []string, result CommandResult) {
	operation := OperationName(args)
	if operation == "" {
		return
	}

	latencyMs := float64(result.Elapsed.Microseconds()) / 1000.0
	failure := Classify(result.ExitCode, result.Stdout, result.Stderr)
	if failure == nil {
		r.logger.InfoContext(ctx, "git operation finished",
			"operation", operation,
			"success", true,
			"exit_code", result.ExitCode,
			"latency_ms", latencyMs)
		return
	}

	r.logger.WarnContext(ctx, "git operation failed",
		"operation", operation,
		"success", false,
		"exit_code", result.ExitCode,
		"latency_ms", latencyMs,
		"error_code", failure.Code,
		"error_category", failure.Category,
		"retryable", failure.Retryable)
}
