package config

import (
	"log/slog"
	"math"
	"os"
	"strings"
)

// Flag is a boolean policy setting that can be overridden from the environment
type Flag struct {
	SettingsKey string
	EnvVar      string
}

// Policy flags. All default to false.
var (
	AllowForcePush = Flag{
		SettingsKey: "gitAllowForcePush",
		EnvVar:      "GITCORE_GIT_ALLOW_FORCE_PUSH",
	}
	AllowNoVerifyCommit = Flag{
		SettingsKey: "gitAllowNoVerifyCommit",
		EnvVar:      "GITCORE_GIT_ALLOW_NO_VERIFY_COMMIT",
	}
	EnforceBranchProtection = Flag{
		SettingsKey: "gitEnforceBranchProtection",
		EnvVar:      "GITCORE_GIT_ENFORCE_BRANCH_PROTECTION",
	}
	StrictPatchValidation = Flag{
		SettingsKey: "gitStrictPatchValidation",
		EnvVar:      "GITCORE_GIT_STRICT_PATCH_VALIDATION",
	}
)

// Settings keys for branch protection
const (
	BranchProtectionKey       = "gitBranchProtection"
	BranchProtectionPromptKey = "gitBranchProtectionPrompt"
)

// PromptMode says what a client should do before committing to a protected branch
type PromptMode string

// Prompt modes
const (
	PromptAlwaysCommit            PromptMode = "alwaysCommit"
	PromptAlwaysCommitToNewBranch PromptMode = "alwaysCommitToNewBranch"
	PromptAlwaysPrompt            PromptMode = "alwaysPrompt"
)

// Policy evaluates settings-driven gates. Settings are re-read on every call.
type Policy struct {
	store     Store
	lookupEnv func(string) (string, bool)
	logger    *slog.Logger
}

// NewPolicy creates a Policy backed by store. A nil lookupEnv reads the process environment.
func NewPolicy(store Store, lookupEnv func(string) (string, bool), logger *slog.Logger) *Policy {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{store: store, lookupEnv: lookupEnv, logger: logger}
}

// load returns the current settings. Unreadable settings count as empty.
func (p *Policy) load() Values {
	if p.store == nil {
		return Values{}
	}
	values, err := p.store.Load()
	if err != nil {
		p.logger.Warn("failed to load settings, using defaults", "error", err)
		return Values{}
	}
	return values
}

// Enabled resolves flag: a recognized environment value wins, then the stored
// setting, then false.
func (p *Policy) Enabled(flag Flag) bool {
	if raw, ok := p.lookupEnv(flag.EnvVar); ok {
		if v, ok := ParseBool(raw); ok {
			return v
		}
	}
	if raw, ok := p.load().Get(flag.SettingsKey); ok {
		if v, ok := ParseBool(raw); ok {
			return v
		}
	}
	return false
}

// AllowForcePush reports whether force pushes are permitted
func (p *Policy) AllowForcePush() bool { return p.Enabled(AllowForcePush) }

// AllowNoVerifyCommit reports whether commits may skip hooks
func (p *Policy) AllowNoVerifyCommit() bool { return p.Enabled(AllowNoVerifyCommit) }

// EnforceBranchProtection reports whether protected branches are enforced
func (p *Policy) EnforceBranchProtection() bool { return p.Enabled(EnforceBranchProtection) }

// StrictPatchValidation reports whether patches are validated strictly
func (p *Policy) StrictPatchValidation() bool { return p.Enabled(StrictPatchValidation) }

// ProtectionFor returns the prompt mode for branch when it matches a protection
// rule. ok is false for unprotected branches.
func (p *Policy) ProtectionFor(branch string) (mode PromptMode, ok bool) {
	values := p.load()
	rules, _ := values.Get(BranchProtectionKey)
	if !IsProtected(branch, ParseStringList(rules)) {
		return "", false
	}
	raw, _ := values.Get(BranchProtectionPromptKey)
	return ParsePromptMode(raw), true
}

// ParseBool interprets a stored or environment value. Strings accept
// true/1/yes/on and false/0/no/off; numbers are true when non-zero.
// ok is false for anything else.
func ParseBool(v any) (value bool, ok bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		return t != 0, true
	case int64:
		return t != 0, true
	case float64:
		if t != math.Trunc(t) {
			return false, false
		}
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
	}
	return false, false
}

// ParseStringList reads a list of strings, trimming entries and dropping
// blanks and duplicates. Non-string entries are ignored.
func ParseStringList(v any) []string {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	default:
		return []string{}
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ParsePromptMode reads a prompt mode case-insensitively, defaulting to alwaysPrompt
func ParsePromptMode(v any) PromptMode {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	for _, mode := range []PromptMode{PromptAlwaysCommit, PromptAlwaysCommitToNewBranch} {
		if strings.EqualFold(s, string(mode)) {
			return mode
		}
	}
	return PromptAlwaysPrompt
}

// Flags lists every policy flag
var Flags = []Flag{AllowForcePush, AllowNoVerifyCommit, EnforceBranchProtection, StrictPatchValidation}

// EffectivePolicy is the resolved policy, after environment overrides
type EffectivePolicy struct {
	Flags            map[string]bool `json:"flags"`
	BranchProtection []string        `json:"branchProtection"`
	PromptMode       PromptMode      `json:"promptMode"`
}

// Effective resolves every flag and the branch protection rules
func (p *Policy) Effective() EffectivePolicy {
	values := p.load()
	rules, _ := values.Get(BranchProtectionKey)
	prompt, _ := values.Get(BranchProtectionPromptKey)

	eff := EffectivePolicy{
		Flags:            make(map[string]bool, len(Flags)),
		BranchProtection: ParseStringList(rules),
		PromptMode:       ParsePromptMode(prompt),
	}
	for _, f := range Flags {
		eff.Flags[f.SettingsKey] = p.Enabled(f)
	}
	return eff
}
