package git

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Submodule is one entry of a .gitmodules file
type Submodule struct {
	Name   string `json:"name,omitempty"`
	Path   string `json:"path"`
	URL    string `json:"url"`
	Branch string `json:"branch,omitempty"`
}

// ParseGitmodules reads the INI-like .gitmodules format. Sections start at
// `[submodule ...]`; entries without both a path and a url are dropped.
func ParseGitmodules(contents string) []Submodule {
	out := make([]Submodule, 0)
	var cur *Submodule

	flush := func() {
		if cur != nil && cur.Path != "" && cur.URL != "" {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flush()
			if strings.HasPrefix(line, "[submodule") {
				cur = &Submodule{Name: sectionName(line)}
			}
			continue
		}
		if cur == nil {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "path":
			cur.Path = value
		case "url":
			cur.URL = value
		case "branch":
			cur.Branch = value
		}
	}
	flush()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func sectionName(header string) string {
	start := strings.IndexByte(header, '"')
	end := strings.LastIndexByte(header, '"')
	if start < 0 || end <= start {
		return ""
	}
	return header[start+1 : end]
}

// ReadGitmodules parses <root>/.gitmodules. A missing file yields an empty list.
func ReadGitmodules(root string) ([]Submodule, error) {
	data, err := os.ReadFile(filepath.Join(root, ".gitmodules"))
	if errors.Is(err, os.ErrNotExist) {
		return []Submodule{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseGitmodules(string(data)), nil
}
