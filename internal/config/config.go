// Package config loads and saves the panel's settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the persisted behaviour record.
type Settings struct {
	// ReplaceNewTabOnEmptyTab reopens the panel whenever the tab becomes
	// empty (after the editor exits) instead of quitting.
	ReplaceNewTabOnEmptyTab bool `toml:"replace_new_tab_on_empty_tab"`
	// FocusSearchOnOpen puts the cursor in the search box on mount.
	FocusSearchOnOpen bool `toml:"focus_search_on_open"`
}

type VaultConfig struct {
	Path   string   `toml:"path"`
	Ignore []string `toml:"ignore"`
}

type EditorConfig struct {
	Command string `toml:"command"`
}

type Config struct {
	Settings Settings     `toml:"settings"`
	Vault    VaultConfig  `toml:"vault"`
	Editor   EditorConfig `toml:"editor"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Settings: Settings{
			ReplaceNewTabOnEmptyTab: true,
			FocusSearchOnOpen:       true,
		},
	}
}

// fileConfig uses pointers so keys absent from the file keep their defaults.
type fileConfig struct {
	Settings struct {
		ReplaceNewTabOnEmptyTab *bool `toml:"replace_new_tab_on_empty_tab"`
		FocusSearchOnOpen       *bool `toml:"focus_search_on_open"`
	} `toml:"settings"`
	Vault struct {
		Path   *string  `toml:"path"`
		Ignore []string `toml:"ignore"`
	} `toml:"vault"`
	Editor struct {
		Command *string `toml:"command"`
	} `toml:"editor"`
}

func mergeConfigs(dst *Config, src *fileConfig) {
	if src.Settings.ReplaceNewTabOnEmptyTab != nil {
		dst.Settings.ReplaceNewTabOnEmptyTab = *src.Settings.ReplaceNewTabOnEmptyTab
	}
	if src.Settings.FocusSearchOnOpen != nil {
		dst.Settings.FocusSearchOnOpen = *src.Settings.FocusSearchOnOpen
	}
	if src.Vault.Path != nil {
		dst.Vault.Path = *src.Vault.Path
	}
	if src.Vault.Ignore != nil {
		dst.Vault.Ignore = src.Vault.Ignore
	}
	if src.Editor.Command != nil {
		dst.Editor.Command = *src.Editor.Command
	}
}

// Manager reads and writes one config file.
type Manager struct {
	path        string
	lockTimeout time.Duration
	log         *logrus.Entry
}

func NewManager(path string) *Manager {
	return &Manager{
		path:        path,
		lockTimeout: 2 * time.Second,
		log:         logrus.WithFields(logrus.Fields{"component": "config", "path": path}),
	}
}

func (m *Manager) Path() string { return m.path }

// DefaultPath returns $XDG_CONFIG_HOME/newtab/config.toml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "newtab", "config.toml")
}

// Load merges the file over Default. A missing file yields the defaults.
func (m *Manager) Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.log.Debug("config file not found, using defaults")
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var file fileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", m.path, err)
	}
	mergeConfigs(cfg, &file)
	cfg.Vault.Path = expandHome(cfg.Vault.Path)
	return cfg, nil
}

// Save writes cfg atomically while holding the config lock.
func (m *Manager) Save(cfg *Config) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	unlock, err := m.lock()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	m.log.Debug("config saved")
	return nil
}

// UpdateSettings reloads the file, applies fn to its settings and saves the
// result, so concurrent writers do not drop each other's unrelated keys.
func (m *Manager) UpdateSettings(fn func(*Settings)) (Settings, error) {
	cfg, err := m.Load()
	if err != nil {
		return Settings{}, err
	}
	fn(&cfg.Settings)
	if err := m.Save(cfg); err != nil {
		return Settings{}, err
	}
	return cfg.Settings, nil
}

func (m *Manager) lock() (func(), error) {
	l := flock.New(m.path + ".lock")
	deadline := time.Now().Add(m.lockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire config lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("config is locked by another process (lock: %s)", l.Path())
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// SetSetting assigns a setting by its file key. Values parse as booleans.
func (s *Settings) SetSetting(key, value string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidSetting, key, value)
	}
	switch key {
	case "replace_new_tab_on_empty_tab", "replaceNewTabOnEmptyTab":
		s.ReplaceNewTabOnEmptyTab = b
	case "focus_search_on_open", "focusSearchOnOpen":
		s.FocusSearchOnOpen = b
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidSetting, key)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
