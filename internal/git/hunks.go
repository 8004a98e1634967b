package git

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

// MaxPatchBytes caps the size of a patch fed to git apply
const MaxPatchBytes = 1024 * 1024

// Regex to match hunk headers: @@ -old_start,old_count +new_start,new_count @@
var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// PatchSummary counts what a unified diff touches
type PatchSummary struct {
	Files        int `json:"files"`
	Hunks        int `json:"hunks"`
	ChangedLines int `json:"changedLines"`
}

// PatchTarget is the granularity a client selected a patch at
type PatchTarget string

// Patch targets
const (
	PatchTargetFile     PatchTarget = "file"
	PatchTargetHunk     PatchTarget = "hunk"
	PatchTargetSelected PatchTarget = "selected"
)

// PatchMode describes how git apply is invoked for a patch
type PatchMode struct {
	Cached   bool
	Reverse  bool
	ThreeWay bool
	// DefaultTarget is set for modes that imply a granularity.
	DefaultTarget PatchTarget
	// Strict modes are subject to hunk validation when the policy asks for it.
	Strict bool
}

// Args returns the git apply arguments for the mode, reading the patch from stdin
func (m PatchMode) Args() []string {
	args := []string{"apply", "--whitespace=nowarn"}
	if m.Cached {
		args = append(args, "--cached")
	}
	if m.Reverse {
		args = append(args, "--reverse")
	}
	if m.ThreeWay {
		args = append(args, "--3way")
	}
	return args
}

// ParsePatchMode reads a mode such as stage, unstage-hunk or discard-selected.
// Underscores are accepted in place of dashes.
func ParsePatchMode(raw string) (PatchMode, bool) {
	mode := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if mode == "" {
		mode = "stage"
	}

	switch mode {
	case "apply":
		return PatchMode{}, true
	case "apply-3way", "apply-three-way", "apply3way":
		return PatchMode{ThreeWay: true}, true
	}

	verb, suffix, _ := strings.Cut(mode, "-")
	var m PatchMode
	switch verb {
	case "stage":
		m = PatchMode{Cached: true}
	case "unstage":
		m = PatchMode{Cached: true, Reverse: true}
	case "discard":
		m = PatchMode{Reverse: true}
	default:
		return PatchMode{}, false
	}
	m.Strict = true

	switch suffix {
	case "":
	case "hunk":
		m.DefaultTarget = PatchTargetHunk
	case "selected", "selection", "range":
		m.DefaultTarget = PatchTargetSelected
	default:
		return PatchMode{}, false
	}
	return m, true
}

// ParsePatchTarget reads an optional granularity hint. Blank yields "".
func ParsePatchTarget(raw string) (PatchTarget, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case "file":
		return PatchTargetFile, true
	case "hunk":
		return PatchTargetHunk, true
	case "selected", "range", "selection":
		return PatchTargetSelected, true
	}
	return "", false
}

// ResolvePatchTarget combines the mode's implied target with the requested one.
// ok is false when both are set and disagree.
func ResolvePatchTarget(mode PatchMode, requested PatchTarget) (PatchTarget, bool) {
	if mode.DefaultTarget != "" {
		if requested != "" && requested != mode.DefaultTarget {
			return "", false
		}
		return mode.DefaultTarget, true
	}
	if requested == "" {
		return PatchTargetFile, true
	}
	return requested, true
}

// PatchFailure builds a validation failure for a rejected patch
func PatchFailure(code, message, hint string) *gcerrors.Failure {
	return gcerrors.NewValidationError(code, message).
		WithHint(hint).
		WithCategory(gcerrors.CategoryValidation)
}

type hunkCounter struct {
	expectedOld, expectedNew int
	seenOld, seenNew         int
}

func newHunkCounter(match []string) *hunkCounter {
	return &hunkCounter{expectedOld: hunkCount(match[2]), expectedNew: hunkCount(match[4])}
}

// open reports whether the hunk still expects body lines. Inside an open hunk
// "--- " and "+++ " are removed or added content, not file headers.
func (h *hunkCounter) open() bool {
	return h != nil && (h.seenOld < h.expectedOld || h.seenNew < h.expectedNew)
}

// record counts one body line. ok is false for lines a hunk cannot hold.
func (h *hunkCounter) record(line string) (changed, ok bool) {
	switch {
	case strings.HasPrefix(line, " "):
		h.seenOld++
		h.seenNew++
	case strings.HasPrefix(line, "+"):
		h.seenNew++
		return true, true
	case strings.HasPrefix(line, "-"):
		h.seenOld++
		return true, true
	case strings.HasPrefix(line, `\ No newline at end of file`):
	default:
		return false, false
	}
	return false, true
}

// headerLinePrefixes are the extended header lines allowed between hunks
var headerLinePrefixes = []string{
	"index ",
	"new file mode ",
	"deleted file mode ",
	"old mode ",
	"new mode ",
	"similarity index ",
	"rename from ",
	"rename to ",
	"copy from ",
	"copy to ",
	"Binary files ",
	"GIT binary patch",
}

// ValidatePatchHunks checks that every hunk of a unified diff holds exactly the
// number of lines its header announces.
func ValidatePatchHunks(patch string) (PatchSummary, *gcerrors.Failure) {
	var summary PatchSummary
	var active *hunkCounter
	sawOld, sawNew := false, false

	finalize := func() *gcerrors.Failure {
		if active == nil {
			return nil
		}
		if active.expectedOld != active.seenOld || active.expectedNew != active.seenNew {
			return PatchFailure("invalid_patch_hunk_counts",
				"Patch hunk headers do not match patch content",
				"Refresh the diff and retry; stale patches can fail after file changes.")
		}
		summary.Hunks++
		active = nil
		return nil
	}

	for _, raw := range strings.Split(strings.TrimRight(patch, "\n"), "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "diff --git ") {
			if f := finalize(); f != nil {
				return summary, f
			}
			summary.Files++
			continue
		}
		if match := hunkHeaderRegex.FindStringSubmatch(line); match != nil {
			if f := finalize(); f != nil {
				return summary, f
			}
			active = newHunkCounter(match)
			continue
		}
		if !active.open() {
			if strings.HasPrefix(line, "--- ") {
				sawOld = true
				continue
			}
			if strings.HasPrefix(line, "+++ ") {
				sawNew = true
				continue
			}
		}

		if active != nil {
			changed, ok := active.record(line)
			if !ok {
				return summary, PatchFailure("invalid_patch_hunk_line",
					"Patch contains invalid hunk lines",
					"Only unified diff lines (+, -, and context) are allowed inside hunks.")
			}
			if changed {
				summary.ChangedLines++
			}
			continue
		}

		if line == "" || hasAnyPrefix(line, headerLinePrefixes) {
			continue
		}
		return summary, invalidPatch("invalid_patch_format")
	}

	if f := finalize(); f != nil {
		return summary, f
	}
	if summary.Files == 0 && sawOld && sawNew {
		summary.Files = 1
	}
	switch {
	case summary.Files == 0:
		return summary, invalidPatch("invalid_patch_missing_file")
	case summary.Hunks == 0:
		return summary, invalidPatch("invalid_patch_missing_hunks")
	case summary.ChangedLines == 0:
		return summary, invalidPatch("invalid_patch_no_changes")
	}
	return summary, nil
}

func invalidPatch(code string) *gcerrors.Failure {
	return PatchFailure(code, "Patch is not a valid unified diff",
		"Generate the patch from the current diff and retry.")
}

// hunkCount reads the optional line count of a hunk header side; a missing count means 1
func hunkCount(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// PatchPathsAreSafe reports whether every ---/+++ path of a patch is a safe
// repository-relative path. A patch without any file paths is not safe.
func PatchPathsAreSafe(patch string) bool {
	found := false
	var active *hunkCounter
	for _, line := range strings.Split(patch, "\n") {
		if match := hunkHeaderRegex.FindStringSubmatch(line); match != nil {
			active = newHunkCounter(match)
			continue
		}
		if active.open() {
			active.record(line)
			continue
		}
		var path string
		switch {
		case strings.HasPrefix(line, "--- "):
			path = line[4:]
		case strings.HasPrefix(line, "+++ "):
			path = line[4:]
		default:
			continue
		}
		token, _, _ := strings.Cut(path, "\t")
		token = strings.TrimSpace(token)
		if token == "/dev/null" {
			continue
		}
		if rest, ok := strings.CutPrefix(token, "a/"); ok {
			token = rest
		} else if rest, ok := strings.CutPrefix(token, "b/"); ok {
			token = rest
		}
		token = strings.TrimSpace(token)
		if token == "" || !IsSafeRelativePath(token) {
			return false
		}
		found = true
	}
	return found
}

// NewPatchSpec returns a git apply spec for mode with the patch on stdin,
// newline-terminated.
func NewPatchSpec(dir string, mode PatchMode, patch string) CommandSpec {
	if !strings.HasSuffix(patch, "\n") {
		patch += "\n"
	}
	return Git(dir, mode.Args()...).WithStdin([]byte(patch))
}

// patchTooLarge is returned for patches above MaxPatchBytes
func patchTooLarge() *gcerrors.Failure {
	return gcerrors.NewFailure(http.StatusRequestEntityTooLarge, "patch_too_large", "Patch too large").
		WithCategory(gcerrors.CategoryValidation)
}

// CheckPatchSize rejects patches above MaxPatchBytes
func CheckPatchSize(patch string) *gcerrors.Failure {
	if len(patch) > MaxPatchBytes {
		return patchTooLarge()
	}
	return nil
}
