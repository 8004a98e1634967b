package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// SettingsFileEnvVar overrides the settings file location
const SettingsFileEnvVar = "GITCORE_SETTINGS_FILE"

// Values holds raw settings values. Keys are matched case-insensitively.
type Values map[string]any

// Get returns the value stored under key
func (v Values) Get(key string) (any, bool) {
	val, ok := v[strings.ToLower(key)]
	return val, ok
}

func normalizeKeys(in map[string]any) Values {
	out := make(Values, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Store supplies settings. Load is called on every policy check so edits take
// effect without a restart.
type Store interface {
	Load() (Values, error)
}

// DefaultSettingsPath returns GITCORE_SETTINGS_FILE when set, otherwise
// $XDG_CONFIG_HOME/gitcore/settings.json (or ~/.config/gitcore/settings.json).
func DefaultSettingsPath(lookupEnv func(string) (string, bool)) string {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if p, ok := lookupEnv(SettingsFileEnvVar); ok && strings.TrimSpace(p) != "" {
		return strings.TrimSpace(p)
	}
	base, ok := lookupEnv("XDG_CONFIG_HOME")
	if !ok || strings.TrimSpace(base) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "gitcore", "settings.json")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gitcore", "settings.json")
}

// FileStore reads settings from a JSON, YAML or TOML file through viper.
// A missing file yields empty settings.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore for path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the settings file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", s.path, err)
	}
	return v, nil
}

// Load reads the settings file
func (s *FileStore) Load() (Values, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.read()
	if err != nil {
		return nil, err
	}
	return normalizeKeys(v.AllSettings()), nil
}

// Set stores value under key and writes the file, creating it if needed
func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.read()
	if err != nil {
		return err
	}
	v.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", s.path, err)
	}
	return nil
}

// StaticStore serves fixed settings
type StaticStore struct {
	values Values
	err    error
}

// NewStaticStore creates a store that always returns values
func NewStaticStore(values map[string]any) *StaticStore {
	return &StaticStore{values: normalizeKeys(values)}
}

// NewFailingStore creates a store whose Load always fails with err
func NewFailingStore(err error) *StaticStore {
	return &StaticStore{err: err}
}

// Load returns the fixed settings
func (s *StaticStore) Load() (Values, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.values, nil
}
