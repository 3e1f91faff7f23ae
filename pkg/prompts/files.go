package prompts

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
)

// SaveFile writes every registered template to a JSON file.
func (m *Manager) SaveFile(path string) error {
	bs, err := json.MarshalIndent(m.ListAll(), "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(path, bs, 0644); err != nil {
		return errors.WithMessagef(err, "failed to write templates to %q", path)
	}
	return nil
}

// LoadFile registers every template found in a JSON file. Existing templates
// with the same ID are replaced.
func (m *Manager) LoadFile(path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return errors.WithMessagef(err, "failed to read templates from %q", path)
	}
	var templates []*Template
	if err := json.Unmarshal(bs, &templates); err != nil {
		return errors.WithMessagef(err, "failed to parse templates in %q", path)
	}
	for _, t := range templates {
		if err := m.Register(t); err != nil {
			return err
		}
	}
	return nil
}
