package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Settings.ReplaceNewTabOnEmptyTab)
	assert.True(t, cfg.Settings.FocusSearchOnOpen)
	assert.Empty(t, cfg.Vault.Path)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "config.toml"))
	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[settings]
focus_search_on_open = false

[vault]
path = "/notes"
ignore = ["Archive/**"]
`), 0o644))

	cfg, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.True(t, cfg.Settings.ReplaceNewTabOnEmptyTab, "absent key keeps its default")
	assert.False(t, cfg.Settings.FocusSearchOnOpen)
	assert.Equal(t, "/notes", cfg.Vault.Path)
	assert.Equal(t, []string{"Archive/**"}, cfg.Vault.Ignore)
	assert.Empty(t, cfg.Editor.Command)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[settings\nbroken"), 0o644))

	_, err := NewManager(path).Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	m := NewManager(path)

	cfg := Default()
	cfg.Settings.ReplaceNewTabOnEmptyTab = false
	cfg.Editor.Command = "nvim -p"
	require.NoError(t, m.Save(cfg))

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".config-", "temp files are cleaned up")
	}
}

func TestUpdateSettingsKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[vault]\npath = \"/notes\"\n"), 0o644))
	m := NewManager(path)

	settings, err := m.UpdateSettings(func(s *Settings) { s.FocusSearchOnOpen = false })
	require.NoError(t, err)
	assert.False(t, settings.FocusSearchOnOpen)
	assert.True(t, settings.ReplaceNewTabOnEmptyTab)

	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "/notes", cfg.Vault.Path)
	assert.False(t, cfg.Settings.FocusSearchOnOpen)
}

func TestSetSetting(t *testing.T) {
	var s Settings
	require.NoError(t, s.SetSetting("replace_new_tab_on_empty_tab", "true"))
	require.NoError(t, s.SetSetting("focusSearchOnOpen", "1"))
	assert.Equal(t, Settings{ReplaceNewTabOnEmptyTab: true, FocusSearchOnOpen: true}, s)

	assert.ErrorIs(t, s.SetSetting("focus_search_on_open", "maybe"), ErrInvalidSetting)
	assert.ErrorIs(t, s.SetSetting("colour", "true"), ErrInvalidSetting)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), expandHome("~/notes"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
