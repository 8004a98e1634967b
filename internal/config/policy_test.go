package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitcore.dev/gitcore/internal/config"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    any
		value bool
		ok    bool
	}{
		{true, true, true},
		{false, false, true},
		{"true", true, true},
		{" YES ", true, true},
		{"on", true, true},
		{"1", true, true},
		{"off", false, true},
		{"No", false, true},
		{"0", false, true},
		{"maybe", false, false},
		{"", false, false},
		{float64(1), true, true},
		{float64(0), false, true},
		{float64(2), true, true},
		{1.5, false, false},
		{int64(3), true, true},
		{nil, false, false},
		{[]any{"true"}, false, false},
	}
	for _, tc := range cases {
		value, ok := config.ParseBool(tc.in)
		require.Equal(t, tc.ok, ok, "input %#v", tc.in)
		require.Equal(t, tc.value, value, "input %#v", tc.in)
	}
}

func TestParseStringList(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"main", "release/*"},
		config.ParseStringList([]any{" main ", "", "release/*", "main", 7}))
	require.Equal(t, []string{"a"}, config.ParseStringList([]string{"a", "a"}))
	require.Equal(t, []string{}, config.ParseStringList("main"))
	require.Equal(t, []string{}, config.ParseStringList(nil))
}

func TestParsePromptMode(t *testing.T) {
	t.Parallel()

	require.Equal(t, config.PromptAlwaysCommit, config.ParsePromptMode("alwayscommit"))
	require.Equal(t, config.PromptAlwaysCommitToNewBranch, config.ParsePromptMode(" AlwaysCommitToNewBranch "))
	require.Equal(t, config.PromptAlwaysPrompt, config.ParsePromptMode("alwaysPrompt"))
	require.Equal(t, config.PromptAlwaysPrompt, config.ParsePromptMode("sometimes"))
	require.Equal(t, config.PromptAlwaysPrompt, config.ParsePromptMode(nil))
}

func TestPolicyEnabled(t *testing.T) {
	t.Parallel()

	t.Run("defaults to false", func(t *testing.T) {
		t.Parallel()
		p := config.NewPolicy(config.NewStaticStore(nil), envOf(nil), nil)
		require.False(t, p.AllowForcePush())
		require.False(t, p.AllowNoVerifyCommit())
		require.False(t, p.EnforceBranchProtection())
		require.False(t, p.StrictPatchValidation())
	})

	t.Run("stored settings apply", func(t *testing.T) {
		t.Parallel()
		store := config.NewStaticStore(map[string]any{
			"gitAllowForcePush":        true,
			"gitAllowNoVerifyCommit":   "yes",
			"gitStrictPatchValidation": float64(1),
		})
		p := config.NewPolicy(store, envOf(nil), nil)
		require.True(t, p.AllowForcePush())
		require.True(t, p.AllowNoVerifyCommit())
		require.True(t, p.StrictPatchValidation())
		require.False(t, p.EnforceBranchProtection())
	})

	t.Run("environment overrides settings", func(t *testing.T) {
		t.Parallel()
		store := config.NewStaticStore(map[string]any{"gitAllowForcePush": true})
		p := config.NewPolicy(store, envOf(map[string]string{
			"GITCORE_GIT_ALLOW_FORCE_PUSH":          "off",
			"GITCORE_GIT_ENFORCE_BRANCH_PROTECTION": "1",
		}), nil)
		require.False(t, p.AllowForcePush())
		require.True(t, p.EnforceBranchProtection())
	})

	t.Run("unrecognized environment value falls through", func(t *testing.T) {
		t.Parallel()
		store := config.NewStaticStore(map[string]any{"gitAllowForcePush": true})
		p := config.NewPolicy(store, envOf(map[string]string{
			"GITCORE_GIT_ALLOW_FORCE_PUSH": "perhaps",
		}), nil)
		require.True(t, p.AllowForcePush())
	})

	t.Run("unreadable settings use defaults", func(t *testing.T) {
		t.Parallel()
		p := config.NewPolicy(config.NewFailingStore(errors.New("boom")), envOf(nil), nil)
		require.False(t, p.AllowForcePush())

		p = config.NewPolicy(config.NewFailingStore(errors.New("boom")), envOf(map[string]string{
			"GITCORE_GIT_ALLOW_FORCE_PUSH": "true",
		}), nil)
		require.True(t, p.AllowForcePush())
	})
}

func TestProtectionFor(t *testing.T) {
	t.Parallel()

	store := config.NewStaticStore(map[string]any{
		"gitBranchProtection":       []any{"main", "release/*", "hotfix-?"},
		"gitBranchProtectionPrompt": "alwaysCommitToNewBranch",
	})
	p := config.NewPolicy(store, envOf(nil), nil)

	for _, branch := range []string{"main", "release/1.2", "hotfix-a"} {
		mode, ok := p.ProtectionFor(branch)
		require.True(t, ok, branch)
		require.Equal(t, config.PromptAlwaysCommitToNewBranch, mode)
	}
	for _, branch := range []string{"feature/main", "hotfix-abc", "", "mainline"} {
		_, ok := p.ProtectionFor(branch)
		require.False(t, ok, branch)
	}

	bare := config.NewPolicy(config.NewStaticStore(map[string]any{
		"gitBranchProtection": []any{"main"},
	}), envOf(nil), nil)
	mode, ok := bare.ProtectionFor("main")
	require.True(t, ok)
	require.Equal(t, config.PromptAlwaysPrompt, mode)
}

func TestIsProtected(t *testing.T) {
	t.Parallel()

	rules := []string{"main", "release/*", "hotfix-?", "v1.0"}
	require.True(t, config.IsProtected("main", rules))
	require.True(t, config.IsProtected("release/", rules))
	require.True(t, config.IsProtected("v1.0", rules))
	require.False(t, config.IsProtected("v1x0", rules), "dots are literal")
	require.False(t, config.IsProtected("   ", rules))
	require.False(t, config.IsProtected("main", nil))
	require.False(t, config.IsProtected("main", []string{"  "}))
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	t.Run("missing file is empty", func(t *testing.T) {
		t.Parallel()
		store := config.NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
		values, err := store.Load()
		require.NoError(t, err)
		require.Empty(t, values)
	})

	t.Run("reads json settings", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
  "gitAllowForcePush": true,
  "gitBranchProtection": ["main", "release/*"],
  "gitBranchProtectionPrompt": "alwaysCommit"
}`), 0o600))

		p := config.NewPolicy(config.NewFileStore(path), envOf(nil), nil)
		require.True(t, p.AllowForcePush())
		mode, ok := p.ProtectionFor("release/2")
		require.True(t, ok)
		require.Equal(t, config.PromptAlwaysCommit, mode)
	})

	t.Run("edits are picked up without a restart", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.json")
		p := config.NewPolicy(config.NewFileStore(path), envOf(nil), nil)
		require.False(t, p.AllowForcePush())

		require.NoError(t, os.WriteFile(path, []byte(`{"gitAllowForcePush": "on"}`), 0o600))
		require.True(t, p.AllowForcePush())
	})

	t.Run("set writes the file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "settings.json")
		store := config.NewFileStore(path)
		require.NoError(t, store.Set("gitAllowNoVerifyCommit", true))

		values, err := store.Load()
		require.NoError(t, err)
		v, ok := values.Get("gitAllowNoVerifyCommit")
		require.True(t, ok)
		require.Equal(t, true, v)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
		_, err := config.NewFileStore(path).Load()
		require.Error(t, err)
	})
}

func TestDefaultSettingsPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/tmp/custom.json", config.DefaultSettingsPath(envOf(map[string]string{
		"GITCORE_SETTINGS_FILE": "/tmp/custom.json",
	})))
	require.Equal(t, filepath.Join("/xdg", "gitcore", "settings.json"), config.DefaultSettingsPath(envOf(map[string]string{
		"XDG_CONFIG_HOME": "/xdg",
	})))
}

func TestEffective(t *testing.T) {
	t.Parallel()

	store := config.NewStaticStore(map[string]any{
		"gitAllowForcePush":         true,
		"gitBranchProtection":       []any{"main", " main ", ""},
		"gitBranchProtectionPrompt": "ALWAYSCOMMIT",
	})
	p := config.NewPolicy(store, envOf(map[string]string{"GITCORE_GIT_STRICT_PATCH_VALIDATION": "on"}), nil)

	eff := p.Effective()
	require.Equal(t, map[string]bool{
		"gitAllowForcePush":          true,
		"gitAllowNoVerifyCommit":     false,
		"gitEnforceBranchProtection": false,
		"gitStrictPatchValidation":   true,
	}, eff.Flags)
	require.Equal(t, []string{"main"}, eff.BranchProtection)
	require.Equal(t, config.PromptAlwaysCommit, eff.PromptMode)

	empty := config.NewPolicy(config.NewStaticStore(nil), envOf(nil), nil).Effective()
	require.Equal(t, []string{}, empty.BranchProtection)
	require.Equal(t, config.PromptAlwaysPrompt, empty.PromptMode)
}
