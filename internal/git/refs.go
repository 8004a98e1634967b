package git

import (
	"path/filepath"
	"regexp"
	"strings"
)

// LocalBranchFromRefspec extracts the local branch a push refspec publishes.
// It returns "" for HEAD, wildcards, non-branch refs and other specs that do not
// name a single local branch.
func LocalBranchFromRefspec(spec string) string {
	local := strings.TrimSpace(spec)
	if local == "" {
		return ""
	}
	local = strings.TrimSpace(strings.TrimPrefix(local, "+"))
	if left, _, ok := strings.Cut(local, ":"); ok {
		local = strings.TrimSpace(left)
	}
	if local == "" || local == "HEAD" {
		return ""
	}
	if name, ok := strings.CutPrefix(local, "refs/heads/"); ok {
		local = strings.TrimSpace(name)
	}
	if strings.HasPrefix(local, "refs/") || strings.ContainsAny(local, "* ") {
		return ""
	}
	return local
}

var stashRefPattern = regexp.MustCompile(`^stash@\{\d+\}$`)

// NormalizeStashRef turns "", "N" and "stash@{N}" into a stash ref.
// Anything else is rejected.
func NormalizeStashRef(ref string) (string, bool) {
	r := strings.TrimSpace(ref)
	switch {
	case r == "":
		return "stash@{0}", true
	case stashRefPattern.MatchString(r):
		return r, true
	case isDigits(r):
		return "stash@{" + r + "}", true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsSafeRelativePath reports whether p is a non-empty relative path that cannot
// escape its base directory.
func IsSafeRelativePath(p string) bool {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return false
	}
	if filepath.VolumeName(p) != "" {
		return false
	}
	for _, part := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return true
}

// NormalizeIgnoreEntry converts a repository-relative path into a .gitignore entry.
func NormalizeIgnoreEntry(raw string) (string, bool) {
	entry := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	for strings.HasPrefix(entry, "./") {
		entry = strings.TrimPrefix(entry, "./")
	}
	entry = strings.TrimLeft(entry, "/")
	if entry == "" || entry == "." {
		return "", false
	}
	return entry, true
}

// ValidRemoteName reports whether name is a plain remote name such as origin.
func ValidRemoteName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") {
		return false
	}
	for _, c := range name {
		if !isASCIIAlnum(c) && c != '_' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isASCIIAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// DeriveRepoName builds a GitHub repository name from a requested name or the
// directory's base name: ASCII letters, digits, '-', '_' and '.', with runs of
// whitespace or '/' collapsed into a single '-'. At most 100 characters.
func DeriveRepoName(dir, requested string) string {
	base := strings.TrimSpace(requested)
	if base == "" {
		base = strings.TrimSpace(filepath.Base(dir))
	}
	var b strings.Builder
	lastDash := false
	for _, c := range base {
		switch {
		case isASCIIAlnum(c) || c == '-' || c == '_' || c == '.':
			b.WriteRune(c)
			lastDash = false
		case (c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '/') && !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	name := strings.Trim(b.String(), "-.")
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}

// StashEntry is one line of `git stash list`
type StashEntry struct {
	Ref   string `json:"ref"`
	Title string `json:"title"`
}

// ParseStashList splits `stash@{0}: On main: message` lines at the first colon.
func ParseStashList(raw string) []StashEntry {
	entries := make([]StashEntry, 0)
	for _, line := range strings.Split(raw, "\n") {
		ref, title, ok := strings.Cut(line, ":")
		ref = strings.TrimSpace(ref)
		if !ok || ref == "" {
			continue
		}
		entries = append(entries, StashEntry{Ref: ref, Title: strings.TrimSpace(title)})
	}
	return entries
}
