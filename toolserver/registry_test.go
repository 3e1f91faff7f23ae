package toolserver_test

import (
	"context"
	"testing"

	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ConnectAllIsolation(t *testing.T) {
	dialer := &fakeDialer{
		conns: map[string]*fakeConn{
			"weather": {},
			"news":    {},
		},
		failures: map[string]error{
			"broken": errors.New("spawn failed"),
		},
	}
	reg := toolserver.NewRegistry(toolserver.WithDialer(dialer))

	report := reg.ConnectAll(context.Background(), []toolserver.Descriptor{
		{Name: "weather", Command: "weather-server"},
		{Name: "broken", Command: "broken-server"},
		{Name: "news", Command: "news-server"},
	})

	assert.Equal(t, []string{"news", "weather"}, report.Connected)
	require.Len(t, report.Failed, 1)
	assert.ErrorContains(t, report.Failed["broken"], "spawn failed")

	assert.True(t, reg.Has("weather"))
	assert.True(t, reg.Has("news"))
	assert.False(t, reg.Has("broken"))
	assert.Equal(t, []string{"news", "weather"}, reg.Names())
}

func TestRegistry_CallUnknownServer(t *testing.T) {
	reg := toolserver.NewRegistry(toolserver.WithDialer(&fakeDialer{}))

	_, err := reg.Call(context.Background(), "weather", "get_weather", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, toolserver.ErrUnknownServer))

	_, err = reg.ListTools(context.Background(), "weather")
	assert.True(t, errors.Is(err, toolserver.ErrUnknownServer))
}

func TestRegistry_Call(t *testing.T) {
	conn := &fakeConn{result: toolserver.TextResult("sunny")}
	reg := toolserver.NewRegistry(toolserver.WithDialer(&fakeDialer{
		conns: map[string]*fakeConn{"weather": conn},
	}))
	report := reg.ConnectAll(context.Background(), []toolserver.Descriptor{{Name: "weather"}})
	require.Empty(t, report.Failed)

	res, err := reg.Call(context.Background(), "weather", "get_weather", map[string]any{"city": "Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "sunny", res.Text())
	assert.Equal(t, "get_weather", conn.lastTool)
	assert.Equal(t, "Tokyo", conn.lastArgs["city"])
}

func TestRegistry_ListToolsFailure(t *testing.T) {
	conn := &fakeConn{listErr: errors.New("pipe closed")}
	reg := toolserver.NewRegistry(toolserver.WithDialer(&fakeDialer{
		conns: map[string]*fakeConn{"weather": conn},
	}))
	reg.ConnectAll(context.Background(), []toolserver.Descriptor{{Name: "weather"}})

	_, err := reg.ListTools(context.Background(), "weather")
	require.Error(t, err)
	assert.True(t, errors.Is(err, toolserver.ErrServerUnavailable))
	assert.ErrorContains(t, err, "pipe closed")
}

func TestRegistry_DisconnectAll(t *testing.T) {
	weather := &fakeConn{}
	news := &fakeConn{}
	reg := toolserver.NewRegistry(toolserver.WithDialer(&fakeDialer{
		conns: map[string]*fakeConn{"weather": weather, "news": news},
	}))
	reg.ConnectAll(context.Background(), []toolserver.Descriptor{{Name: "weather"}, {Name: "news"}})

	reg.DisconnectAll()
	assert.Equal(t, 1, weather.closed)
	assert.Equal(t, 1, news.closed)
	assert.Empty(t, reg.Names())
}
