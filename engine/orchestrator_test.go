package engine_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/bridgekit-ai/toolbridge/engine"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_ToolQuery(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{
			`{"needs_tool": true, "server": "weather", "tool": "get_weather", "arguments": {"city": "Tokyo"}, "reasoning": "tool fits"}`,
			"It's 21°C and clear in Tokyo right now.",
		},
	}
	conn := &fakeConn{result: toolserver.TextResult(`{"temp": 21, "sky": "clear"}`)}
	orch, session := newWeatherEngine(t, completer, conn)

	answer := orch.Process(context.Background(), "what's the weather in Tokyo?")
	assert.Equal(t, "It's 21°C and clear in Tokyo right now.", answer)

	assert.Equal(t, "get_weather", conn.lastTool)
	assert.Equal(t, "Tokyo", conn.lastArgs["city"])

	stats := session.Stats()
	assert.Equal(t, 1, stats.ToolCalls)
	assert.Equal(t, 0, stats.Errors)

	// interpretation runs warmer than planning
	opts := completer.lastOptions()
	assert.True(t, opts.TemperatureSet)
	assert.Equal(t, 0.3, opts.Temperature)

	// both turns are stored
	history := session.History(context.Background())
	require.Len(t, history, 2)
	assert.Equal(t, "what's the weather in Tokyo?", history[0].Content)
	assert.Equal(t, "It's 21°C and clear in Tokyo right now.", history[1].Content)
}

func TestOrchestrator_DirectAnswer(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{`{"needs_tool": false, "reasoning": "no tool needed", "response": "Paris is the capital of France."}`},
	}
	conn := &fakeConn{}
	orch, session := newWeatherEngine(t, completer, conn)

	answer := orch.Process(context.Background(), "capital of France?")
	assert.Equal(t, "Paris is the capital of France.", answer)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, 0, session.Stats().ToolCalls)
	assert.Empty(t, conn.lastTool)
}

func TestOrchestrator_ParseFailureApologizes(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"no JSON here"}}
	orch, session := newWeatherEngine(t, completer, &fakeConn{})

	answer := orch.Process(context.Background(), "weather?")
	assert.Equal(t, engine.Apology, answer)
	assert.Equal(t, 1, session.Stats().Errors)
	assert.Equal(t, 0, session.Stats().ToolCalls)
}

func TestOrchestrator_UnknownServerApologizes(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{`{"needs_tool": true, "server": "stocks", "tool": "get_quote", "arguments": {}, "reasoning": "tool fits"}`},
	}
	orch, session := newWeatherEngine(t, completer, &fakeConn{})

	answer := orch.Process(context.Background(), "price of ACME?")
	assert.Equal(t, engine.Apology, answer)
	assert.Equal(t, 1, session.Stats().Errors)
	assert.Equal(t, 0, session.Stats().ToolCalls)
}

func TestOrchestrator_ToolFailureApologizes(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{`{"needs_tool": true, "server": "weather", "tool": "get_weather", "arguments": {"city": "Tokyo"}, "reasoning": "tool fits"}`},
	}
	conn := &fakeConn{callErr: errors.New("upstream 500")}
	orch, session := newWeatherEngine(t, completer, conn)

	answer := orch.Process(context.Background(), "weather in Tokyo?")
	assert.Equal(t, engine.Apology, answer)
	assert.Equal(t, 1, session.Stats().Errors)
	assert.Equal(t, 0, session.Stats().ToolCalls)
}

func TestOrchestrator_InvalidArgumentsApologizes(t *testing.T) {
	// required city is missing, so the call never reaches the server
	completer := &fakeCompleter{
		replies: []string{`{"needs_tool": true, "server": "weather", "tool": "get_weather", "arguments": {}, "reasoning": "tool fits"}`},
	}
	conn := &fakeConn{}
	orch, session := newWeatherEngine(t, completer, conn)

	answer := orch.Process(context.Background(), "weather?")
	assert.Equal(t, engine.Apology, answer)
	assert.Empty(t, conn.lastTool)
	assert.Equal(t, 1, session.Stats().Errors)
}

func TestOrchestrator_Callback(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{
			`{"needs_tool": true, "server": "weather", "tool": "get_weather", "arguments": {"city": "Oslo"}, "reasoning": "tool fits"}`,
			"Cold and rainy in Oslo.",
		},
	}
	conn := &fakeConn{result: toolserver.TextResult("rain, 6C")}

	var out bytes.Buffer
	orch, _ := newWeatherEngine(t, completer, conn, engine.WithCallback(engine.NewPrinterCallback(&out)))

	answer := orch.Process(context.Background(), "weather in Oslo?")
	assert.Equal(t, "Cold and rainy in Oslo.", answer)
	assert.Contains(t, out.String(), "[calling weather__get_weather]")
	assert.Contains(t, out.String(), "[weather__get_weather returned]")
}
