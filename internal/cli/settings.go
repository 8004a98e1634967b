package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/cli/helpers"
	"gitcore.dev/gitcore/internal/config"
	gcerrors "gitcore.dev/gitcore/internal/errors"
	"gitcore.dev/gitcore/internal/runtime"
)

// settingResult is the body of settings get and set
type settingResult struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Set   bool   `json:"set"`
}

// newSettingsCmd creates the settings command
func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change gitcore settings",
		Long: `Read and change the settings file that drives gitcore's policy.

The file lives at $GITCORE_SETTINGS_FILE, or settings.json under the gitcore
directory of $XDG_CONFIG_HOME. Environment variables named GITCORE_GIT_* take
precedence over the file for boolean flags.

Examples:
  gitcore settings set gitAllowForcePush true
  gitcore settings set gitBranchProtection '["main", "release/*"]'
  gitcore settings set gitBranchProtectionPrompt alwaysCommitToNewBranch
  gitcore settings policy`,
	}

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())
	cmd.AddCommand(newSettingsPolicyCmd())

	return cmd
}

func loadSettings(ctx *runtime.Context) (config.Values, error) {
	values, err := ctx.Settings.Load()
	if err != nil {
		return nil, gcerrors.NewInternalError("settings_read_failed", err)
	}
	return values, nil
}

// newSettingsGetCmd creates the settings get command
func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return helpers.Run(cmd, func(ctx *runtime.Context) (config.Values, error) {
					return loadSettings(ctx)
				})
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) (*settingResult, error) {
				values, err := loadSettings(ctx)
				if err != nil {
					return nil, err
				}
				value, ok := values.Get(args[0])
				return &settingResult{Key: args[0], Value: value, Set: ok}, nil
			})
		},
	}
}

// newSettingsSetCmd creates the settings set command
func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Long: `Store a setting. The value is read as JSON when it parses, so true, 3 and
["main"] keep their types; anything else is stored as a string.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			value := parseSettingValue(args[1])
			return helpers.Run(cmd, func(ctx *runtime.Context) (*settingResult, error) {
				if key == "" {
					return nil, gcerrors.NewValidationError("missing_key", "key is required")
				}
				if err := ctx.Settings.Set(key, value); err != nil {
					return nil, gcerrors.NewInternalError("settings_write_failed", err)
				}
				ctx.Splog.Info("Stored %s=%s in %s.", key, describeValue(value), ctx.Settings.Path())
				return &settingResult{Key: key, Value: value, Set: true}, nil
			})
		},
	}
}

// newSettingsPolicyCmd creates the settings policy command
func newSettingsPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective policy after environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) (config.EffectivePolicy, error) {
				return ctx.Policy.Effective(), nil
			})
		},
	}
}

func parseSettingValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// describeValue renders a setting for log lines
func describeValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
