// Package policy manages the user's policy document and its persona
// templates.
package policy

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

//go:embed templates
var templatesFS embed.FS

// personaFiles maps persona names to their embedded template files.
var personaFiles = map[string]string{
	"self": "templates/policy_self.md",
	"team": "templates/policy_team.md",
}

// Personas lists the available persona names, sorted.
func Personas() []string {
	names := make([]string, 0, len(personaFiles))
	for name := range personaFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store reads and writes the policy file under an explicit directory, so
// tests and callers control the root instead of a package-global location.
type Store struct {
	Dir string
}

// NewStore creates a policy store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the policy file location.
func (s *Store) Path() string {
	return filepath.Join(s.Dir, "policy.md")
}

// Exists reports whether a policy file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Install writes the template for the given persona as the active policy,
// creating the store directory if needed.
func (s *Store) Install(persona string) error {
	file, ok := personaFiles[persona]
	if !ok {
		return fmt.Errorf("unknown persona: %s (choose from: %v)", persona, Personas())
	}

	data, err := templatesFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read persona template: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create policy directory: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("write policy: %w", err)
	}
	return nil
}

// Read returns the current policy text.
func (s *Store) Read() (string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no policy found at %s: run 'ailint init' to create one", s.Path())
		}
		return "", fmt.Errorf("read policy: %w", err)
	}
	return string(data), nil
}
