package git

import (
	"strconv"
	"strings"
)

// ChangeSummary is the parsed "N files changed, N insertions(+), N deletions(-)" line.
type ChangeSummary struct {
	Changes    int `json:"changes"`
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// PullStat is the diffstat printed by `git pull --stat`.
type PullStat struct {
	Files      []string `json:"files"`
	Insertions int      `json:"insertions"`
	Deletions  int      `json:"deletions"`
}

// ParseShortstat parses `--shortstat` output. Singular and plural forms are accepted.
func ParseShortstat(raw string) ChangeSummary {
	var s ChangeSummary
	for _, line := range strings.Split(raw, "\n") {
		parseSummaryLine(line, &s)
	}
	return s
}

// ParsePullStat collects the file names of a diffstat (lines containing '|')
// and the totals of its summary line.
func ParsePullStat(raw string) PullStat {
	stat := PullStat{Files: []string{}}
	var s ChangeSummary
	for _, line := range strings.Split(raw, "\n") {
		if name, _, ok := strings.Cut(line, "|"); ok {
			if name = strings.TrimSpace(name); name != "" {
				stat.Files = append(stat.Files, name)
			}
			continue
		}
		parseSummaryLine(line, &s)
	}
	stat.Insertions = s.Insertions
	stat.Deletions = s.Deletions
	return stat
}

func parseSummaryLine(line string, s *ChangeSummary) {
	if !strings.Contains(line, " changed") {
		return
	}
	for _, part := range strings.Split(line, ",") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		switch word := fields[1]; {
		case strings.HasPrefix(word, "file"):
			s.Changes = n
		case strings.HasPrefix(word, "insertion"):
			s.Insertions = n
		case strings.HasPrefix(word, "deletion"):
			s.Deletions = n
		}
	}
}
