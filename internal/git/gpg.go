package git

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

// GpgKey is a secret key (or subkey) that gpg-agent can sign with
type GpgKey struct {
	KeyID       string `json:"keyid,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Keygrip     string `json:"keygrip"`
}

// ErrNoSecretKey is returned when gpg lists no key with a keygrip
var ErrNoSecretKey = errors.New("no GPG secret key with keygrip found")

const presetConfLine = "allow-preset-passphrase"

// ParseSecretKeys reads `gpg --with-colons --with-keygrip --list-secret-keys`.
// Keys without a keygrip are dropped.
func ParseSecretKeys(output string) []GpgKey {
	var (
		keys []GpgKey
		cur  *GpgKey
	)
	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Keygrip) != "" {
			keys = append(keys, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), ":")
		switch fields[0] {
		case "sec", "ssb":
			flush()
			cur = &GpgKey{KeyID: field(fields, 4)}
		case "fpr":
			if cur != nil {
				cur.Fingerprint = field(fields, 9)
			}
		case "grp":
			// gpg prints the keygrip in field 10; some versions used field 2.
			if cur != nil {
				cur.Keygrip = field(fields, 9)
				if cur.Keygrip == "" {
					cur.Keygrip = field(fields, 1)
				}
			}
		}
	}
	flush()

	if keys == nil {
		keys = []GpgKey{}
	}
	return keys
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// PickKeygrip returns the keygrip of the key matching signingKey by key id or
// fingerprint (exact or suffix, case-insensitive), falling back to the first key.
func PickKeygrip(keys []GpgKey, signingKey string) string {
	needle := strings.ToLower(strings.TrimSpace(signingKey))
	if needle != "" {
		for _, k := range keys {
			if matchesKey(strings.ToLower(k.KeyID), needle) || matchesKey(strings.ToLower(k.Fingerprint), needle) {
				return k.Keygrip
			}
		}
	}
	if len(keys) == 0 {
		return ""
	}
	return keys[0].Keygrip
}

func matchesKey(id, needle string) bool {
	return id != "" && strings.HasSuffix(id, needle)
}

// ListSecretKeys asks gpg for the secret keys usable for signing.
func ListSecretKeys(ctx context.Context, runner Runner) ([]GpgKey, error) {
	result, err := runner.Run(ctx, CommandSpec{
		Program: "gpg",
		Args:    []string{"--with-colons", "--with-keygrip", "--list-secret-keys"},
	})
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, commandError(result.Stderr, "gpg --list-secret-keys failed")
	}
	return ParseSecretKeys(result.Stdout), nil
}

// PresetPassphrase stores passphrase in gpg-agent for the key matching signingKey.
// The agent protocol takes the passphrase hex-encoded.
func PresetPassphrase(ctx context.Context, runner Runner, keys []GpgKey, signingKey, passphrase string) error {
	grip := PickKeygrip(keys, signingKey)
	if grip == "" {
		return ErrNoSecretKey
	}
	// The command goes over stdin so the passphrase never shows up in argv.
	script := fmt.Sprintf("PRESET_PASSPHRASE %s -1 %s\n/bye\n", grip, hex.EncodeToString([]byte(passphrase)))
	spec := CommandSpec{Program: "gpg-connect-agent"}.WithStdin([]byte(script))
	result, err := runner.Run(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to run gpg-connect-agent: %w", spawnCause(err))
	}
	if !result.Success() {
		return commandError(result.Stderr, "gpg-agent preset failed")
	}
	// gpg-connect-agent exits 0 even when the agent answers ERR.
	if strings.HasPrefix(strings.TrimSpace(result.Stdout), "ERR") {
		return commandError(result.Stdout, "gpg-agent preset failed")
	}
	return nil
}

// AgentConfPath returns ~/.gnupg/gpg-agent.conf for home
func AgentConfPath(home string) string {
	return filepath.Join(home, ".gnupg", "gpg-agent.conf")
}

// EnablePresetPassphrase adds allow-preset-passphrase to gpg-agent.conf and
// restarts the agent. It reports whether the file was changed.
func EnablePresetPassphrase(ctx context.Context, runner Runner, home string) (bool, error) {
	if strings.TrimSpace(home) == "" {
		return false, errors.New("home directory is not set; cannot locate ~/.gnupg/gpg-agent.conf")
	}
	conf := AgentConfPath(home)
	if err := os.MkdirAll(filepath.Dir(conf), 0o700); err != nil {
		return false, err
	}

	existing, err := os.ReadFile(conf)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	changed := !hasConfLine(string(existing), presetConfLine)
	if changed {
		next := string(existing)
		if next != "" && !strings.HasSuffix(next, "\n") {
			next += "\n"
		}
		next += presetConfLine + "\n"
		if err := os.WriteFile(conf, []byte(next), 0o600); err != nil {
			return false, err
		}
	}

	result, err := runner.Run(ctx, CommandSpec{
		Program: "gpgconf",
		Args:    []string{"--kill", "gpg-agent"},
	})
	if err != nil {
		return changed, err
	}
	if !result.Success() {
		return changed, commandError(result.Stderr, "failed to restart gpg-agent")
	}
	return changed, nil
}

func hasConfLine(contents, want string) bool {
	for _, line := range strings.Split(contents, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

// spawnCause drops the argument list a GitCommandError would print
func spawnCause(err error) error {
	var cmdErr *gcerrors.GitCommandError
	if errors.As(err, &cmdErr) && cmdErr.Err != nil {
		return cmdErr.Err
	}
	return err
}

func commandError(output, fallback string) error {
	if msg := strings.TrimSpace(output); msg != "" {
		return errors.New(msg)
	}
	return errors.New(fallback)
}
