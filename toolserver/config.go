package toolserver

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// ServerConfig describes how to launch one tool server process.
type ServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// Config is the on-disk server map, keyed by server name.
type Config struct {
	McpServers map[string]ServerConfig `json:"mcpServers"`
}

// Descriptor identifies a configured tool server.
// Descriptors are created from configuration at startup and are immutable.
type Descriptor struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
}

// LoadConfig reads the server map from the given path.
// A missing file is not fatal: the returned config is empty and usable, and
// the error matches ErrConfigMissing so callers can degrade instead of abort.
func LoadConfig(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.KV(xlog.WARNING,
				"reason", "config_not_found",
				"path", path,
			)
			return &Config{}, errors.WithMessagef(ErrConfigMissing, "%s", path)
		}
		return nil, errors.WithMessagef(err, "failed to read config %q", path)
	}

	cfg := new(Config)
	if err := json.Unmarshal(bs, cfg); err != nil {
		return nil, errors.WithMessagef(err, "failed to parse config %q", path)
	}
	return cfg, nil
}

// Descriptors returns one descriptor per configured server, sorted by name.
func (c *Config) Descriptors() []Descriptor {
	list := make([]Descriptor, 0, len(c.McpServers))
	for name, sc := range c.McpServers {
		list = append(list, Descriptor{
			Name:    name,
			Command: sc.Command,
			Args:    append([]string(nil), sc.Args...),
			Env:     sc.Env,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
