package tools_test

import (
	"context"
	"testing"

	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name        string
	description string
	registerErr error
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return t.description }

func (t *stubTool) Call(ctx context.Context, input string) (string, error) {
	return "", nil
}

func (t *stubTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	if t.registerErr != nil {
		return t.registerErr
	}
	return registrator.RegisterTool(t.name, t.description, func() {})
}

type recordingRegistrator struct {
	names []string
}

func (r *recordingRegistrator) RegisterTool(name string, description string, handler any) error {
	r.names = append(r.names, name)
	return nil
}

func TestGetDescriptions(t *testing.T) {
	out := tools.GetDescriptions(
		&stubTool{name: "get_weather", description: "Current weather for a city"},
		&stubTool{name: "get_ip_info", description: "Geolocate an IP address"},
	)
	assert.Equal(t, "\n```json\n"+`{
	"Tools": [
		{
			"Name": "get_weather",
			"Description": "Current weather for a city"
		},
		{
			"Name": "get_ip_info",
			"Description": "Geolocate an IP address"
		}
	]
}`+"\n```\n", out)
}

func TestRegisterAll(t *testing.T) {
	reg := &recordingRegistrator{}
	err := tools.RegisterAll(reg,
		&stubTool{name: "first"},
		&stubTool{name: "second"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, reg.names)
}

func TestRegisterAll_StopsAtFirstFailure(t *testing.T) {
	reg := &recordingRegistrator{}
	err := tools.RegisterAll(reg,
		&stubTool{name: "first"},
		&stubTool{name: "second", registerErr: errors.New("duplicate tool")},
		&stubTool{name: "third"},
	)
	require.Error(t, err)
	assert.ErrorContains(t, err, "duplicate tool")
	assert.Equal(t, []string{"first"}, reg.names)
}
