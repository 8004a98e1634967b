package git

import (
	"sort"
	"strconv"
	"strings"
)

// StatusFile is one changed path from `git status --porcelain`.
// Index and WorkingDir hold the X and Y status letters, "" when unchanged.
type StatusFile struct {
	Path       string `json:"path"`
	OrigPath   string `json:"origPath,omitempty"`
	Index      string `json:"index"`
	WorkingDir string `json:"workingDir"`
}

// IsMerge reports an unmerged (conflicted) path.
func (f StatusFile) IsMerge() bool {
	if f.Index == "U" || f.WorkingDir == "U" {
		return true
	}
	return (f.Index == "A" && f.WorkingDir == "A") || (f.Index == "D" && f.WorkingDir == "D")
}

// IsUntracked reports a path git does not track yet.
func (f StatusFile) IsUntracked() bool {
	return f.Index == "?" && f.WorkingDir == "?"
}

// IsStaged reports a path with changes in the index. A path can be both staged
// and unstaged.
func (f StatusFile) IsStaged() bool {
	if f.IsMerge() {
		return false
	}
	return f.Index != "" && f.Index != "?"
}

// IsUnstaged reports a tracked path with working tree changes.
func (f StatusFile) IsUnstaged() bool {
	if f.IsMerge() || f.IsUntracked() {
		return false
	}
	return f.WorkingDir != ""
}

// StatusHeader is the branch line of porcelain output.
type StatusHeader struct {
	Current  string
	Tracking string
	Ahead    int
	Behind   int
}

// ParseStatusPorcelain parses `git status --porcelain=v1 -b`, with or without -z.
// Ignored entries are skipped and files are sorted by path.
func ParseStatusPorcelain(raw string) (StatusHeader, []StatusFile) {
	var header StatusHeader
	files := make([]StatusFile, 0)

	add := func(xy, path, orig string) {
		if len(xy) < 2 || xy == "!!" || strings.TrimSpace(path) == "" {
			return
		}
		files = append(files, StatusFile{
			Path:       path,
			OrigPath:   orig,
			Index:      statusCode(xy[0]),
			WorkingDir: statusCode(xy[1]),
		})
	}

	if strings.IndexByte(raw, 0) >= 0 {
		records := strings.Split(raw, "\x00")
		for i := 0; i < len(records); i++ {
			record := strings.TrimRight(records[i], "\r\n")
			if strings.TrimSpace(record) == "" {
				continue
			}
			if strings.HasPrefix(record, "## ") {
				header = parseStatusHeader(record)
				continue
			}
			if len(record) < 4 {
				continue
			}
			xy := record[:2]
			orig := ""
			if hasSecondaryPath(xy) && i+1 < len(records) {
				orig = records[i+1]
				i++
			}
			add(xy, record[3:], orig)
		}
	} else {
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			if strings.HasPrefix(line, "## ") {
				header = parseStatusHeader(line)
				continue
			}
			if len(line) < 4 {
				continue
			}
			path, orig := line[3:], ""
			if hasSecondaryPath(line[:2]) {
				if idx := strings.Index(path, " -> "); idx >= 0 {
					orig, path = path[:idx], path[idx+4:]
				}
			}
			add(line[:2], path, orig)
		}
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return header, files
}

func statusCode(c byte) string {
	if c == ' ' {
		return ""
	}
	return string(c)
}

func hasSecondaryPath(xy string) bool {
	return len(xy) >= 2 && (xy[0] == 'R' || xy[0] == 'C' || xy[1] == 'R' || xy[1] == 'C')
}

func parseStatusHeader(line string) StatusHeader {
	var h StatusHeader
	text := strings.TrimSpace(strings.TrimPrefix(line, "## "))

	for _, prefix := range []string{"No commits yet on ", "Initial commit on "} {
		if strings.HasPrefix(text, prefix) {
			h.Current = strings.TrimSpace(strings.TrimPrefix(text, prefix))
			return h
		}
	}
	if strings.HasPrefix(text, "HEAD (no branch)") {
		h.Current = "HEAD"
		return h
	}

	branchPart, meta := text, ""
	if idx := strings.Index(text, " ["); idx >= 0 {
		branchPart = strings.TrimSpace(text[:idx])
		meta = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(text[idx:]), "["), "]")
	}
	if idx := strings.Index(branchPart, "..."); idx >= 0 {
		h.Current = branchPart[:idx]
		h.Tracking = branchPart[idx+3:]
	} else {
		h.Current = branchPart
	}

	for _, part := range strings.Split(meta, ",") {
		token := strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(token, "ahead "):
			h.Ahead, _ = strconv.Atoi(strings.TrimPrefix(token, "ahead "))
		case strings.HasPrefix(token, "behind "):
			h.Behind, _ = strconv.Atoi(strings.TrimPrefix(token, "behind "))
		}
	}
	return h
}

// DiffStat counts changed lines for one path.
type DiffStat struct {
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// ParseNumstat adds `git diff --numstat` output into stats. Binary files ("-")
// count as zero.
func ParseNumstat(raw string, stats map[string]DiffStat) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}
		path := strings.Join(parts[2:], "\t")
		if path == "" {
			continue
		}
		ins, _ := strconv.Atoi(parts[0])
		del, _ := strconv.Atoi(parts[1])
		s := stats[path]
		s.Insertions += ins
		s.Deletions += del
		stats[path] = s
	}
}
