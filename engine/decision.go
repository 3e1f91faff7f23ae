package engine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/pkg/metricskey"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
)

// HistoryWindow is the number of trailing conversation turns included in the
// planning prompt.
const HistoryWindow = 5

// DecisionKind discriminates a Decision.
type DecisionKind int

const (
	// DecisionToolCall routes the query through a tool.
	DecisionToolCall DecisionKind = iota
	// DecisionAnswer answers the query directly.
	DecisionAnswer
)

// ToolInvocation is a planned tool call, already split into server and tool.
type ToolInvocation struct {
	Qualified string
	Server    string
	Tool      string
	Arguments map[string]any
	Reasoning string
}

// Decision is the planner output. Exactly one branch is populated, selected
// by Kind.
type Decision struct {
	Kind       DecisionKind
	Invocation *ToolInvocation
	Answer     string
	Reasoning  string
}

// decisionPayload is the wire form the model is instructed to emit.
// NeedsTool is a pointer so that an absent field fails validation while an
// explicit false passes.
type decisionPayload struct {
	NeedsTool *bool          `json:"needs_tool" validate:"required"`
	Server    string         `json:"server,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Reasoning string         `json:"reasoning,omitempty"`
	Response  string         `json:"response,omitempty"`
}

const plannerRole = `You are a routing assistant. You are given a list of tools and a user query.
Decide whether one of the tools can help answer the query. Tools are listed as
server__tool; split that identifier into its server and tool parts.`

const plannerFormat = `Respond with exactly one JSON object and nothing else.
To call a tool:
{"needs_tool": true, "server": "<server>", "tool": "<tool>", "arguments": {<parameter>: <value>}, "reasoning": "<why>"}
To answer directly:
{"needs_tool": false, "reasoning": "<why>", "response": "<your answer>"}`

// Planner turns a query plus recent history into a Decision. Planning runs at
// temperature zero and a reply is parsed exactly once, with no retry.
type Planner struct {
	completer chat.Completer
	validate  *validator.Validate
}

// NewPlanner creates a planner over the given completer.
func NewPlanner(completer chat.Completer) *Planner {
	return &Planner{
		completer: completer,
		validate:  validator.New(),
	}
}

// Plan asks the model to route the query and parses its reply.
func (p *Planner) Plan(ctx context.Context, catalog *toolserver.Catalog, history []chat.Message, query string) (*Decision, error) {
	messages := make([]chat.Message, 0, len(history)+2)
	messages = append(messages, chat.SystemMessage(p.systemPrompt(catalog)))
	messages = append(messages, history...)
	messages = append(messages, chat.UserMessage(query))

	started := time.Now()
	reply, err := p.completer.Complete(ctx, messages, chat.WithTemperature(0))
	metricskey.PerfLLMCall.MeasureSince(started, "plan")
	if err != nil {
		return nil, errors.WithMessage(err, "planning call failed")
	}

	decision, err := p.parse(reply)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "decision_parse",
			"err", err.Error(),
			"reply", llmutils.Stringify(reply),
		)
		return nil, err
	}
	return decision, nil
}

func (p *Planner) systemPrompt(catalog *toolserver.Catalog) string {
	var sb strings.Builder
	sb.WriteString(plannerRole)
	sb.WriteString("\n\nAvailable tools:\n")
	if catalog.Len() == 0 {
		sb.WriteString("(none)\n")
	} else {
		sb.WriteString(catalog.DescribeForPrompt())
	}
	sb.WriteString("\n")
	sb.WriteString(plannerFormat)
	return sb.String()
}

// parse tries strict JSON first, then cleans the reply of prose and fences
// and retries with a lenient decoder. Either way the payload is validated
// before it becomes a Decision.
func (p *Planner) parse(reply string) (*Decision, error) {
	var payload decisionPayload
	if err := json.Unmarshal([]byte(reply), &payload); err != nil {
		cleaned := llmutils.CleanJSON([]byte(reply))
		if err := ljson.Unmarshal(cleaned, &payload); err != nil {
			return nil, errors.WithMessage(ErrDecisionParse, "no JSON object in reply")
		}
	}
	if err := p.validate.Struct(&payload); err != nil {
		return nil, errors.WithMessagef(ErrDecisionParse, "%s", err.Error())
	}

	if *payload.NeedsTool {
		if payload.Server == "" || payload.Tool == "" {
			return nil, errors.WithMessagef(ErrDecisionParse,
				"tool decision missing server or tool: server=%q tool=%q", payload.Server, payload.Tool)
		}
		args := payload.Arguments
		if args == nil {
			args = map[string]any{}
		}
		return &Decision{
			Kind: DecisionToolCall,
			Invocation: &ToolInvocation{
				Qualified: payload.Server + toolserver.QualifiedSeparator + payload.Tool,
				Server:    payload.Server,
				Tool:      payload.Tool,
				Arguments: args,
				Reasoning: payload.Reasoning,
			},
			Reasoning: payload.Reasoning,
		}, nil
	}
	if payload.Response == "" {
		return nil, errors.WithMessage(ErrDecisionParse, "direct answer without a response")
	}
	return &Decision{Kind: DecisionAnswer, Answer: payload.Response, Reasoning: payload.Reasoning}, nil
}
