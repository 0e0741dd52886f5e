package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonas(t *testing.T) {
	assert.Equal(t, []string{"self", "team"}, Personas())
}

func TestInstallAndRead(t *testing.T) {
	for _, persona := range Personas() {
		t.Run(persona, func(t *testing.T) {
			s := NewStore(filepath.Join(t.TempDir(), "ailint"))

			assert.False(t, s.Exists())
			require.NoError(t, s.Install(persona))
			assert.True(t, s.Exists())

			text, err := s.Read()
			require.NoError(t, err)
			assert.Contains(t, text, "## Security")
			assert.Contains(t, text, "## Process Discipline")
		})
	}
}

func TestInstall_UnknownPersona(t *testing.T) {
	s := NewStore(t.TempDir())
	err := s.Install("manager")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown persona")
	assert.False(t, s.Exists())
}

func TestInstall_Overwrites(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path(), []byte("old rules"), 0644))

	require.NoError(t, s.Install("self"))
	text, err := s.Read()
	require.NoError(t, err)
	assert.NotContains(t, text, "old rules")
}

func TestRead_Missing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "empty"))
	_, err := s.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ailint init")
}
