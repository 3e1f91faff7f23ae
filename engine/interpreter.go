package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/pkg/metricskey"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
)

// interpreterTemperature leaves room for natural phrasing without letting the
// model drift from the tool output.
const interpreterTemperature = 0.3

const interpreterRole = `You are a helpful assistant. A tool was called on behalf of the user and its
output is provided below. Answer the user's question using only that output.
If the output does not answer the question, say so.`

// Interpreter turns a raw tool result into a conversational answer. The model
// reply is returned verbatim.
type Interpreter struct {
	completer chat.Completer
}

// NewInterpreter creates an interpreter over the given completer.
func NewInterpreter(completer chat.Completer) *Interpreter {
	return &Interpreter{completer: completer}
}

// Interpret phrases the result of one invocation as an answer to the query.
func (i *Interpreter) Interpret(ctx context.Context, query string, inv *ToolInvocation, result *toolserver.Result) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tool %s returned:\n%s\n\nUser question: %s", inv.Qualified, result.Text(), query)

	messages := []chat.Message{
		chat.SystemMessage(interpreterRole),
		chat.UserMessage(sb.String()),
	}

	started := time.Now()
	reply, err := i.completer.Complete(ctx, messages, chat.WithTemperature(interpreterTemperature))
	metricskey.PerfLLMCall.MeasureSince(started, "interpret")
	if err != nil {
		return "", errors.WithMessagef(ErrInterpretation, "%s", err.Error())
	}
	return reply, nil
}
