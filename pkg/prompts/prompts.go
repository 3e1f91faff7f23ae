// Package prompts manages reusable prompt templates with sprig-extended
// template syntax.
package prompts

import (
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
)

// ErrNotFound marks a lookup of a template ID that was never registered.
var ErrNotFound = errors.New("template not found")

// Template is one reusable prompt with its declared variables.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Template    string    `json:"template"`
	Variables   []string  `json:"variables,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Manager is a thread-safe template registry.
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewManager creates a registry preloaded with the builtin templates.
func NewManager() *Manager {
	m := &Manager{
		templates: make(map[string]*Template),
	}
	for _, t := range builtins() {
		_ = m.Register(t)
	}
	return m
}

// Register adds or replaces a template. An empty ID or body is rejected.
func (m *Manager) Register(t *Template) error {
	if t.ID == "" {
		return errors.New("template ID is required")
	}
	if t.Template == "" {
		return errors.Errorf("template %q has no body", t.ID)
	}
	if _, err := parse(t.ID, t.Template); err != nil {
		return errors.WithMessagef(err, "template %q does not parse", t.ID)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return nil
}

// Get returns a template by ID.
func (m *Manager) Get(id string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, errors.WithMessagef(ErrNotFound, "%s", id)
	}
	return t, nil
}

// ListAll returns every template, sorted by ID.
func (m *Manager) ListAll() []*Template {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListByCategory returns the templates in one category, sorted by ID.
func (m *Manager) ListByCategory(category string) []*Template {
	var out []*Template
	for _, t := range m.ListAll() {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// SearchByTag returns the templates carrying the tag, sorted by ID.
func (m *Manager) SearchByTag(tag string) []*Template {
	var out []*Template
	for _, t := range m.ListAll() {
		for _, have := range t.Tags {
			if strings.EqualFold(have, tag) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Render executes a template with the given variables. Declared variables
// must all be present.
func (m *Manager) Render(id string, vars map[string]any) (string, error) {
	t, err := m.Get(id)
	if err != nil {
		return "", err
	}
	for _, name := range t.Variables {
		if _, ok := vars[name]; !ok {
			return "", errors.Errorf("template %q requires variable %q", id, name)
		}
	}

	tmpl, err := parse(t.ID, t.Template)
	if err != nil {
		return "", errors.WithMessagef(err, "template %q does not parse", id)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, vars); err != nil {
		return "", errors.WithMessagef(err, "failed to render template %q", id)
	}
	return sb.String(), nil
}

func parse(name, body string) (*template.Template, error) {
	return template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(body)
}

func builtins() []*Template {
	return []*Template{
		{
			ID:          "summarize",
			Name:        "Summarize",
			Description: "Summarize a document in a few sentences.",
			Template:    "Summarize the following text in at most {{ .sentences }} sentences:\n\n{{ .text }}",
			Variables:   []string{"text", "sentences"},
			Category:    "writing",
			Tags:        []string{"summary"},
		},
		{
			ID:          "explain-json",
			Name:        "Explain JSON",
			Description: "Explain a JSON payload in plain language.",
			Template:    "Explain what the following JSON describes, in plain language:\n\n```json\n{{ .payload }}\n```",
			Variables:   []string{"payload"},
			Category:    "analysis",
			Tags:        []string{"json", "analysis"},
		},
		{
			ID:          "compare",
			Name:        "Compare",
			Description: "Compare two items on the given criteria.",
			Template:    "Compare {{ .first }} and {{ .second }}{{ if .criteria }} on: {{ .criteria }}{{ end }}.",
			Variables:   []string{"first", "second"},
			Category:    "analysis",
			Tags:        []string{"comparison", "analysis"},
		},
	}
}
