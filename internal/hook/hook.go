// Package hook installs ailint's SessionEnd hook into the Claude Code
// settings file so sessions get checked automatically as they end.
package hook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// hookCommand is the command registered as a SessionEnd hook.
const hookCommand = "ailint check --last --quiet"

// Manager edits the Claude settings file at an explicit path.
type Manager struct {
	SettingsPath string
}

// NewManager creates a hook manager for the given settings file.
func NewManager(settingsPath string) *Manager {
	return &Manager{SettingsPath: settingsPath}
}

// settings models only the part of the Claude settings file we touch; every
// other key survives a read/write cycle untouched.
type hookDef struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

type hookEntry struct {
	Matcher string    `json:"matcher"`
	Hooks   []hookDef `json:"hooks"`
}

func (m *Manager) readSettings() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(m.SettingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var settings map[string]json.RawMessage
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", m.SettingsPath, err)
	}
	if settings == nil {
		settings = map[string]json.RawMessage{}
	}
	return settings, nil
}

func (m *Manager) writeSettings(settings map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.SettingsPath), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.WriteFile(m.SettingsPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// readHooks decodes the hooks section into the event -> entries map we edit.
func readHooks(settings map[string]json.RawMessage) (map[string]json.RawMessage, []hookEntry, error) {
	hooks := map[string]json.RawMessage{}
	if raw, ok := settings["hooks"]; ok {
		if err := json.Unmarshal(raw, &hooks); err != nil {
			return nil, nil, fmt.Errorf("parse hooks section: %w", err)
		}
	}

	var sessionEnd []hookEntry
	if raw, ok := hooks["SessionEnd"]; ok {
		if err := json.Unmarshal(raw, &sessionEnd); err != nil {
			return nil, nil, fmt.Errorf("parse SessionEnd hooks: %w", err)
		}
	}
	return hooks, sessionEnd, nil
}

// isAilintHook matches ailint hook commands regardless of flag revisions.
func isAilintHook(command string) bool {
	return strings.Contains(command, "ailint check")
}

func hasAilintHook(entry hookEntry) bool {
	for _, h := range entry.Hooks {
		if isAilintHook(h.Command) {
			return true
		}
	}
	return false
}

// Installed reports whether an ailint SessionEnd hook is present.
func (m *Manager) Installed() (bool, error) {
	settings, err := m.readSettings()
	if err != nil {
		return false, err
	}
	_, sessionEnd, err := readHooks(settings)
	if err != nil {
		return false, err
	}
	for _, entry := range sessionEnd {
		if hasAilintHook(entry) {
			return true, nil
		}
	}
	return false, nil
}

// Install adds the ailint SessionEnd hook, replacing any stale ailint entry.
// Returns true if an older entry was replaced rather than freshly added.
func (m *Manager) Install() (replaced bool, err error) {
	settings, err := m.readSettings()
	if err != nil {
		return false, err
	}
	hooks, sessionEnd, err := readHooks(settings)
	if err != nil {
		return false, err
	}

	kept := sessionEnd[:0]
	for _, entry := range sessionEnd {
		if hasAilintHook(entry) {
			replaced = true
			continue
		}
		kept = append(kept, entry)
	}

	kept = append(kept, hookEntry{
		Matcher: "",
		Hooks:   []hookDef{{Type: "command", Command: hookCommand}},
	})

	if err := writeBack(settings, hooks, kept); err != nil {
		return false, err
	}
	return replaced, m.writeSettings(settings)
}

// Uninstall removes any ailint SessionEnd hook entries.
func (m *Manager) Uninstall() (removed bool, err error) {
	settings, err := m.readSettings()
	if err != nil {
		return false, err
	}
	hooks, sessionEnd, err := readHooks(settings)
	if err != nil {
		return false, err
	}

	kept := sessionEnd[:0]
	for _, entry := range sessionEnd {
		if hasAilintHook(entry) {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return false, nil
	}

	if err := writeBack(settings, hooks, kept); err != nil {
		return false, err
	}
	return true, m.writeSettings(settings)
}

// writeBack re-encodes the edited SessionEnd list into the settings map.
func writeBack(settings, hooks map[string]json.RawMessage, sessionEnd []hookEntry) error {
	raw, err := json.Marshal(sessionEnd)
	if err != nil {
		return fmt.Errorf("encode SessionEnd hooks: %w", err)
	}
	hooks["SessionEnd"] = raw

	rawHooks, err := json.Marshal(hooks)
	if err != nil {
		return fmt.Errorf("encode hooks section: %w", err)
	}
	settings["hooks"] = rawHooks
	return nil
}
