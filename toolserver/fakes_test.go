package toolserver_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// fakeConn is an in-memory Conn with scripted responses.
type fakeConn struct {
	tools    []toolserver.ToolInfo
	listErr  error
	callErr  error
	result   *toolserver.Result
	lastTool string
	lastArgs map[string]any
	closed   int
}

func (c *fakeConn) ListTools(ctx context.Context) ([]toolserver.ToolInfo, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.tools, nil
}

func (c *fakeConn) CallTool(ctx context.Context, name string, args map[string]any) (*toolserver.Result, error) {
	c.lastTool = name
	c.lastArgs = args
	if c.callErr != nil {
		return nil, c.callErr
	}
	if c.result != nil {
		return c.result, nil
	}
	return toolserver.TextResult("ok"), nil
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

// fakeDialer hands out scripted connections by server name and fails the
// servers listed in failures.
type fakeDialer struct {
	conns    map[string]*fakeConn
	failures map[string]error
}

func (d *fakeDialer) Dial(ctx context.Context, desc toolserver.Descriptor) (toolserver.Conn, error) {
	if err, ok := d.failures[desc.Name]; ok {
		return nil, err
	}
	conn, ok := d.conns[desc.Name]
	if !ok {
		return nil, errors.Errorf("no fake for %q", desc.Name)
	}
	return conn, nil
}

func schemaOf(t *testing.T, properties string, required ...string) json.RawMessage {
	t.Helper()
	doc := map[string]any{
		"type":       "object",
		"properties": json.RawMessage(properties),
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	bs, err := json.Marshal(doc)
	require.NoError(t, err)
	return bs
}
