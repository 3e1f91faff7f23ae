package engine_test

import (
	"context"
	"testing"

	"github.com/bridgekit-ai/toolbridge/engine"
	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannerCatalog(t *testing.T) *toolserver.Catalog {
	t.Helper()
	conn := &fakeConn{
		tools: []toolserver.ToolInfo{{
			Name:        "get_weather",
			Description: "Current weather for a city",
			InputSchema: []byte(weatherSchema),
		}},
	}
	reg := toolserver.NewRegistry(toolserver.WithDialer(&fakeDialer{
		conns: map[string]*fakeConn{"weather": conn},
	}))
	reg.ConnectAll(context.Background(), []toolserver.Descriptor{{Name: "weather"}})
	cat, failed := toolserver.BuildCatalog(context.Background(), reg)
	require.Empty(t, failed)
	return cat
}

func TestPlanner_ToolCall(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{`{"needs_tool": true, "server": "weather", "tool": "get_weather", "arguments": {"city": "Tokyo"}, "reasoning": "weather question"}`},
	}
	planner := engine.NewPlanner(completer)

	d, err := planner.Plan(context.Background(), plannerCatalog(t), nil, "what's the weather in Tokyo?")
	require.NoError(t, err)
	require.Equal(t, engine.DecisionToolCall, d.Kind)
	require.NotNil(t, d.Invocation)
	assert.Equal(t, "weather", d.Invocation.Server)
	assert.Equal(t, "get_weather", d.Invocation.Tool)
	assert.Equal(t, "Tokyo", d.Invocation.Arguments["city"])

	// planning runs at temperature zero
	opts := completer.lastOptions()
	assert.True(t, opts.TemperatureSet)
	assert.Equal(t, float64(0), opts.Temperature)

	// system prompt carries the catalog and the reply format
	msgs := completer.lastMessages()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, chat.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "weather__get_weather")
	assert.Contains(t, msgs[0].Content, `"needs_tool": true`)
	assert.Equal(t, chat.RoleUser, msgs[len(msgs)-1].Role)
}

func TestPlanner_DirectAnswer(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{`{"needs_tool": false, "reasoning": "general knowledge", "response": "About 3.14."}`},
	}
	planner := engine.NewPlanner(completer)

	d, err := planner.Plan(context.Background(), plannerCatalog(t), nil, "what is pi?")
	require.NoError(t, err)
	assert.Equal(t, engine.DecisionAnswer, d.Kind)
	assert.Equal(t, "About 3.14.", d.Answer)
	assert.Nil(t, d.Invocation)
}

func TestPlanner_HistoryWindow(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{`{"needs_tool": false, "reasoning": "r", "response": "ok"}`},
	}
	planner := engine.NewPlanner(completer)

	history := []chat.Message{
		chat.UserMessage("first"),
		chat.AssistantMessage("reply"),
	}
	_, err := planner.Plan(context.Background(), plannerCatalog(t), history, "next")
	require.NoError(t, err)

	msgs := completer.lastMessages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "first", msgs[1].Content)
	assert.Equal(t, "reply", msgs[2].Content)
	assert.Equal(t, "next", msgs[3].Content)
}

func TestPlanner_ParseFallback(t *testing.T) {
	// prose around the object is stripped by the lenient pass
	completer := &fakeCompleter{
		replies: []string{"Sure! Here is my decision:\n```json\n" +
			`{"needs_tool": true, "server": "weather", "tool": "get_weather", "arguments": {"city": "Oslo"}, "reasoning": "forecast lookup"}` +
			"\n```\nLet me know if you need anything else."},
	}
	planner := engine.NewPlanner(completer)

	d, err := planner.Plan(context.Background(), plannerCatalog(t), nil, "weather in Oslo")
	require.NoError(t, err)
	require.Equal(t, engine.DecisionToolCall, d.Kind)
	assert.Equal(t, "Oslo", d.Invocation.Arguments["city"])
	assert.Equal(t, "forecast lookup", d.Invocation.Reasoning)
}

func TestPlanner_ParseFallbackDirectAnswer(t *testing.T) {
	completer := &fakeCompleter{
		replies: []string{`Here you go: {"needs_tool": false, "reasoning": "x", "response": "y"} hope that helps`},
	}
	planner := engine.NewPlanner(completer)

	d, err := planner.Plan(context.Background(), plannerCatalog(t), nil, "anything")
	require.NoError(t, err)
	require.Equal(t, engine.DecisionAnswer, d.Kind)
	assert.Equal(t, "y", d.Answer)
	assert.Equal(t, "x", d.Reasoning)
}

func TestPlanner_ParseErrors(t *testing.T) {
	tcases := []struct {
		name  string
		reply string
	}{
		{name: "no JSON", reply: "I think you should check a weather website."},
		{name: "missing needs_tool", reply: `{"server": "weather", "tool": "get_weather"}`},
		{name: "tool without server", reply: `{"needs_tool": true, "tool": "get_weather"}`},
		{name: "tool without name", reply: `{"needs_tool": true, "server": "weather"}`},
		{name: "empty response", reply: `{"needs_tool": false, "reasoning": "r", "response": ""}`},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			completer := &fakeCompleter{replies: []string{tc.reply}}
			planner := engine.NewPlanner(completer)

			_, err := planner.Plan(context.Background(), plannerCatalog(t), nil, "query")
			require.Error(t, err)
			assert.True(t, errors.Is(err, engine.ErrDecisionParse))
			// exactly one model call, no retry
			assert.Equal(t, 1, completer.calls)
		})
	}
}

func TestPlanner_CompleterError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	planner := engine.NewPlanner(completer)

	_, err := planner.Plan(context.Background(), plannerCatalog(t), nil, "query")
	require.Error(t, err)
	assert.False(t, errors.Is(err, engine.ErrDecisionParse))
	assert.ErrorContains(t, err, "rate limited")
}
