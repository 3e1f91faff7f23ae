package toolserver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp_servers.json")
	err := os.WriteFile(path, []byte(`{
  "mcpServers": {
    "weather": {
      "command": "weather-server",
      "args": ["--format", "json"],
      "env": {"UNITS": "metric"}
    },
    "news": {
      "command": "news-server"
    }
  }
}`), 0644)
	require.NoError(t, err)

	cfg, err := toolserver.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.McpServers, 2)

	descs := cfg.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "news", descs[0].Name)
	assert.Equal(t, "weather", descs[1].Name)
	assert.Equal(t, []string{"--format", "json"}, descs[1].Args)
	assert.Equal(t, "metric", descs[1].Env["UNITS"])
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := toolserver.LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, toolserver.ErrConfigMissing))
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Descriptors())
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp_servers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers": [`), 0644))

	_, err := toolserver.LoadConfig(path)
	assert.EqualError(t, err, "failed to parse config \""+path+"\": unexpected end of JSON input")
}
