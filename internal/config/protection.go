package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// compiled protection patterns, keyed by the trimmed rule
var patternCache = cache.New(30*time.Minute, time.Hour)

// wildcardPattern compiles a protection rule where '*' matches any run of
// characters and '?' exactly one. Everything else is literal.
func wildcardPattern(rule string) *regexp.Regexp {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil
	}
	if cached, ok := patternCache.Get(rule); ok {
		return cached.(*regexp.Regexp)
	}

	escaped := regexp.QuoteMeta(rule)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	escaped = strings.ReplaceAll(escaped, `\?`, ".")
	re, err := regexp.Compile("^" + escaped + "$")
	if err != nil {
		return nil
	}
	patternCache.SetDefault(rule, re)
	return re
}

// IsProtected reports whether branch matches any rule. A blank branch is never protected.
func IsProtected(branch string, rules []string) bool {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return false
	}
	for _, rule := range rules {
		if re := wildcardPattern(rule); re != nil && re.MatchString(branch) {
			return true
		}
	}
	return false
}
