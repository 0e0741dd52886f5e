package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), ".claude", "settings.json"))
}

func readRaw(t *testing.T, m *Manager) map[string]any {
	t.Helper()
	data, err := os.ReadFile(m.SettingsPath)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestInstall_FreshSettings(t *testing.T) {
	m := newManager(t)

	installed, err := m.Installed()
	require.NoError(t, err)
	assert.False(t, installed)

	replaced, err := m.Install()
	require.NoError(t, err)
	assert.False(t, replaced)

	installed, err = m.Installed()
	require.NoError(t, err)
	assert.True(t, installed)

	raw := readRaw(t, m)
	hooks := raw["hooks"].(map[string]any)
	sessionEnd := hooks["SessionEnd"].([]any)
	require.Len(t, sessionEnd, 1)
}

func TestInstall_ReplacesStaleEntry(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(m.SettingsPath), 0755))
	stale := `{"hooks":{"SessionEnd":[{"matcher":"","hooks":[{"type":"command","command":"ailint check --last --quiet --tty"}]}]}}`
	require.NoError(t, os.WriteFile(m.SettingsPath, []byte(stale), 0644))

	replaced, err := m.Install()
	require.NoError(t, err)
	assert.True(t, replaced)

	raw := readRaw(t, m)
	sessionEnd := raw["hooks"].(map[string]any)["SessionEnd"].([]any)
	require.Len(t, sessionEnd, 1, "stale ailint entry replaced, not duplicated")
}

func TestInstall_PreservesOtherSettings(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(m.SettingsPath), 0755))
	existing := `{
		"model": "opus",
		"hooks": {
			"SessionEnd": [{"matcher":"","hooks":[{"type":"command","command":"notify-send done"}]}],
			"PreToolUse": [{"matcher":"Bash","hooks":[{"type":"command","command":"audit.sh"}]}]
		}
	}`
	require.NoError(t, os.WriteFile(m.SettingsPath, []byte(existing), 0644))

	_, err := m.Install()
	require.NoError(t, err)

	raw := readRaw(t, m)
	assert.Equal(t, "opus", raw["model"], "unrelated top-level keys survive")

	hooks := raw["hooks"].(map[string]any)
	assert.Contains(t, hooks, "PreToolUse", "other hook events survive")

	sessionEnd := hooks["SessionEnd"].([]any)
	require.Len(t, sessionEnd, 2, "foreign SessionEnd hooks survive")
}

func TestUninstall(t *testing.T) {
	m := newManager(t)
	_, err := m.Install()
	require.NoError(t, err)

	removed, err := m.Uninstall()
	require.NoError(t, err)
	assert.True(t, removed)

	installed, err := m.Installed()
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestUninstall_NotInstalled(t *testing.T) {
	m := newManager(t)
	removed, err := m.Uninstall()
	require.NoError(t, err)
	assert.False(t, removed)
	// Nothing was written.
	_, statErr := os.Stat(m.SettingsPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstall_CorruptSettings(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(m.SettingsPath), 0755))
	require.NoError(t, os.WriteFile(m.SettingsPath, []byte("{not json"), 0644))

	_, err := m.Install()
	assert.Error(t, err, "corrupt settings are surfaced, not clobbered")
}
