package git

import (
	"strconv"
	"strings"
)

// Values used for lines that exist only in the working tree.
const (
	UncommittedHash    = "0000000000000000000000000000000000000000"
	UncommittedAuthor  = "Not Committed Yet"
	UncommittedSummary = "Uncommitted changes"
)

// BlameLine attributes one line of a file to the commit that last changed it
type BlameLine struct {
	Line        int    `json:"line"`
	Hash        string `json:"hash"`
	Author      string `json:"author"`
	AuthorEmail string `json:"authorEmail"`
	AuthorTime  int64  `json:"authorTime"`
	Summary     string `json:"summary"`
}

type blameMeta struct {
	author      string
	authorEmail string
	authorTime  int64
	summary     string
}

func (m blameMeta) empty() bool {
	return m.author == "" && m.authorEmail == "" && m.authorTime == 0 && m.summary == ""
}

func isHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

// parseBlameHeader parses "<hash> <orig> <final> [<group>]".
func parseBlameHeader(line string) (hash string, final, group int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !isHash(fields[0]) {
		return "", 0, 0, false
	}
	group = 1
	if len(fields) > 2 {
		if n, err := strconv.Atoi(fields[2]); err == nil && n >= 0 {
			final = n
		}
	}
	if len(fields) > 3 {
		if n, err := strconv.Atoi(fields[3]); err == nil && n > 1 {
			group = n
		}
	}
	return fields[0], final, group, true
}

// ParseBlamePorcelain reconstructs per-line attribution from `git blame --porcelain`
// or `--line-porcelain` output. Metadata is cached per commit because git only
// prints it the first time a commit appears. Lines without a usable line number
// are dropped.
func ParseBlamePorcelain(output string) []BlameLine {
	var (
		lines     []BlameLine
		cache     = map[string]blameMeta{}
		hash      string
		meta      blameMeta
		remaining int
		nextLine  int
	)

	for _, raw := range strings.Split(output, "\n") {
		raw = strings.TrimSuffix(raw, "\r")

		if strings.HasPrefix(raw, "\t") {
			if remaining == 0 || hash == "" {
				continue
			}
			m := meta
			if m.empty() {
				m = cache[hash]
			}
			lines = append(lines, BlameLine{
				Line:        nextLine,
				Hash:        hash,
				Author:      m.author,
				AuthorEmail: m.authorEmail,
				AuthorTime:  m.authorTime,
				Summary:     m.summary,
			})
			if !m.empty() {
				cache[hash] = m
			}
			nextLine++
			remaining--
			continue
		}

		line := strings.TrimRight(raw, " \t")
		if line == "" {
			continue
		}

		if h, final, group, ok := parseBlameHeader(line); ok {
			hash = h
			nextLine = final
			remaining = group
			meta = cache[h]
			continue
		}

		switch {
		case strings.HasPrefix(line, "author "):
			meta.author = strings.TrimPrefix(line, "author ")
		case strings.HasPrefix(line, "author-mail "):
			email := strings.TrimSpace(strings.TrimPrefix(line, "author-mail "))
			meta.authorEmail = strings.TrimRight(strings.TrimLeft(email, "<"), ">")
		case strings.HasPrefix(line, "author-time "):
			t, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, "author-time ")), 10, 64)
			if err != nil {
				t = 0
			}
			meta.authorTime = t
		case strings.HasPrefix(line, "summary "):
			meta.summary = strings.TrimPrefix(line, "summary ")
		}
	}

	out := make([]BlameLine, 0, len(lines))
	for _, l := range lines {
		if l.Line > 0 {
			out = append(out, l)
		}
	}
	return out
}

// IsBlameMissingPath reports whether blame failed because the path is not in HEAD.
func IsBlameMissingPath(stdout, stderr string) bool {
	combined := strings.ToLower(stdout + "\n" + stderr)
	return strings.Contains(combined, "no such path") &&
		(strings.Contains(combined, " in head") || strings.Contains(combined, " in commit"))
}

// UncommittedBlame attributes every line of content to the working tree.
func UncommittedBlame(content string) []BlameLine {
	n := countLines(content)
	lines := make([]BlameLine, 0, n)
	for i := 1; i <= n; i++ {
		lines = append(lines, BlameLine{
			Line:    i,
			Hash:    UncommittedHash,
			Author:  UncommittedAuthor,
			Summary: UncommittedSummary,
		})
	}
	return lines
}

// countLines counts lines the way a line iterator does: a trailing newline does
// not start a new line.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
