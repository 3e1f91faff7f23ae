package engine_test

import (
	"context"
	"testing"

	"github.com/bridgekit-ai/toolbridge/engine"
	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/store"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// fakeCompleter replays scripted replies and records what it was asked.
type fakeCompleter struct {
	replies []string
	err     error

	calls    int
	messages [][]chat.Message
	options  []chat.CallOptions
}

func (c *fakeCompleter) GetProviderType() chat.ProviderType {
	return chat.ProviderOpenAI
}

func (c *fakeCompleter) Complete(ctx context.Context, messages []chat.Message, ops ...chat.CallOption) (string, error) {
	opts := chat.ApplyOptions(ops...)

	c.messages = append(c.messages, messages)
	c.options = append(c.options, opts)
	c.calls++

	if c.err != nil {
		return "", c.err
	}
	reply := c.replies[c.calls-1]
	return reply, nil
}

func (c *fakeCompleter) lastMessages() []chat.Message {
	return c.messages[len(c.messages)-1]
}

func (c *fakeCompleter) lastOptions() chat.CallOptions {
	return c.options[len(c.options)-1]
}

// fakeConn serves a fixed tool list and a scripted call result.
type fakeConn struct {
	tools    []toolserver.ToolInfo
	result   *toolserver.Result
	callErr  error
	lastTool string
	lastArgs map[string]any
}

func (c *fakeConn) ListTools(ctx context.Context) ([]toolserver.ToolInfo, error) {
	return c.tools, nil
}

func (c *fakeConn) CallTool(ctx context.Context, name string, args map[string]any) (*toolserver.Result, error) {
	c.lastTool = name
	c.lastArgs = args
	if c.callErr != nil {
		return nil, c.callErr
	}
	return c.result, nil
}

func (c *fakeConn) Close() error {
	return nil
}

type fakeDialer struct {
	conns map[string]*fakeConn
}

func (d *fakeDialer) Dial(ctx context.Context, desc toolserver.Descriptor) (toolserver.Conn, error) {
	conn, ok := d.conns[desc.Name]
	if !ok {
		return nil, errors.Errorf("no fake for %q", desc.Name)
	}
	return conn, nil
}

// weatherSchema declares one required string parameter.
const weatherSchema = `{
	"type": "object",
	"properties": {
		"city": {"type": "string", "description": "City name"}
	},
	"required": ["city"]
}`

// newWeatherEngine wires a registry, catalog and orchestrator around a single
// weather server and the given completer.
func newWeatherEngine(t *testing.T, completer chat.Completer, conn *fakeConn, ops ...engine.OrchestratorOption) (*engine.Orchestrator, *engine.Session) {
	t.Helper()
	if conn.tools == nil {
		conn.tools = []toolserver.ToolInfo{{
			Name:        "get_weather",
			Description: "Current weather for a city",
			InputSchema: []byte(weatherSchema),
		}}
	}

	reg := toolserver.NewRegistry(toolserver.WithDialer(&fakeDialer{
		conns: map[string]*fakeConn{"weather": conn},
	}))
	report := reg.ConnectAll(context.Background(), []toolserver.Descriptor{{Name: "weather"}})
	require.Empty(t, report.Failed)
	t.Cleanup(reg.DisconnectAll)

	catalog, failed := toolserver.BuildCatalog(context.Background(), reg)
	require.Empty(t, failed)

	session := engine.NewSession(store.NewMemoryStore())
	orch := engine.NewOrchestrator(
		engine.NewPlanner(completer),
		engine.NewDispatcher(reg, catalog),
		engine.NewInterpreter(completer),
		reg,
		catalog,
		session,
		ops...,
	)
	return orch, session
}
