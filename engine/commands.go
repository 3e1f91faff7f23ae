package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const helpText = `Commands:
  /help     show this help
  /tools    list available tools
  /status   show session status
  /history  show the conversation so far
  /clear    discard the conversation history
  /quit     exit (also: quit, exit, q)

Anything else is treated as a question.`

// CommandResult is the outcome of HandleCommand. Handled is false when the
// line is a regular query and should go through Process.
type CommandResult struct {
	Handled bool
	Quit    bool
	Output  string
}

// HandleCommand intercepts session commands before the query pipeline.
// Slash commands and the bare quit aliases are handled; everything else
// passes through.
func (o *Orchestrator) HandleCommand(ctx context.Context, line string) CommandResult {
	trimmed := strings.TrimSpace(line)

	switch strings.ToLower(trimmed) {
	case "quit", "exit", "q", "/quit":
		return CommandResult{Handled: true, Quit: true, Output: "Goodbye."}
	}

	if !strings.HasPrefix(trimmed, "/") {
		return CommandResult{}
	}

	switch strings.ToLower(trimmed) {
	case "/help":
		return CommandResult{Handled: true, Output: helpText}
	case "/tools":
		return CommandResult{Handled: true, Output: o.describeTools()}
	case "/status":
		return CommandResult{Handled: true, Output: o.describeStatus(ctx)}
	case "/history":
		return CommandResult{Handled: true, Output: o.describeHistory(ctx)}
	case "/clear":
		if err := o.session.Clear(ctx); err != nil {
			return CommandResult{Handled: true, Output: "Failed to clear history: " + err.Error()}
		}
		return CommandResult{Handled: true, Output: "History cleared."}
	default:
		return CommandResult{
			Handled: true,
			Output:  fmt.Sprintf("Unknown command %q. Did you mean /help?", trimmed),
		}
	}
}

func (o *Orchestrator) describeTools() string {
	if o.catalog.Len() == 0 {
		return "No tools available."
	}
	return fmt.Sprintf("%d tools available:\n%s", o.catalog.Len(), o.catalog.DescribeForPrompt())
}

func (o *Orchestrator) describeStatus(ctx context.Context) string {
	stats := o.session.Stats()
	servers := o.registry.Names()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session:    %s\n", o.session.ID())
	fmt.Fprintf(&sb, "Uptime:     %s\n", time.Since(stats.StartedAt).Round(time.Second))
	fmt.Fprintf(&sb, "Servers:    %d connected", len(servers))
	if len(servers) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(servers, ", "))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "History:    %d messages\n", len(o.session.History(ctx)))
	fmt.Fprintf(&sb, "Tool calls: %d\n", stats.ToolCalls)
	fmt.Fprintf(&sb, "Errors:     %d", stats.Errors)
	return sb.String()
}

func (o *Orchestrator) describeHistory(ctx context.Context) string {
	msgs := o.session.History(ctx)
	if len(msgs) == 0 {
		return "No conversation yet."
	}
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %s", m.Role, m.Content)
	}
	return sb.String()
}
