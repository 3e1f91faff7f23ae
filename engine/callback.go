package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/effective-security/xlog"
)

// Callback receives progress events while a query is processed.
type Callback interface {
	OnQueryStart(ctx context.Context, query string)
	OnDecision(ctx context.Context, decision *Decision)
	OnToolStart(ctx context.Context, inv *ToolInvocation)
	OnToolEnd(ctx context.Context, inv *ToolInvocation, result *toolserver.Result)
	OnToolError(ctx context.Context, inv *ToolInvocation, err error)
	OnAnswer(ctx context.Context, answer string)
}

// NoopCallback does nothing.
type NoopCallback struct{}

func NewNoopCallback() *NoopCallback {
	return &NoopCallback{}
}

var _ Callback = (*NoopCallback)(nil)

func (c *NoopCallback) OnQueryStart(ctx context.Context, query string)       {}
func (c *NoopCallback) OnDecision(ctx context.Context, decision *Decision)   {}
func (c *NoopCallback) OnToolStart(ctx context.Context, inv *ToolInvocation) {}
func (c *NoopCallback) OnToolEnd(ctx context.Context, inv *ToolInvocation, result *toolserver.Result) {
}
func (c *NoopCallback) OnToolError(ctx context.Context, inv *ToolInvocation, err error) {}
func (c *NoopCallback) OnAnswer(ctx context.Context, answer string)                     {}

// PrinterCallback prints progress to the Writer.
type PrinterCallback struct {
	Out io.Writer
}

func NewPrinterCallback(out io.Writer) *PrinterCallback {
	return &PrinterCallback{Out: out}
}

var _ Callback = (*PrinterCallback)(nil)

func (c *PrinterCallback) OnQueryStart(ctx context.Context, query string) {}

func (c *PrinterCallback) OnDecision(ctx context.Context, decision *Decision) {
	if decision.Kind == DecisionToolCall {
		fmt.Fprintf(c.Out, "[calling %s]\n", decision.Invocation.Qualified)
	}
}

func (c *PrinterCallback) OnToolStart(ctx context.Context, inv *ToolInvocation) {}

func (c *PrinterCallback) OnToolEnd(ctx context.Context, inv *ToolInvocation, result *toolserver.Result) {
	fmt.Fprintf(c.Out, "[%s returned]\n", inv.Qualified)
}

func (c *PrinterCallback) OnToolError(ctx context.Context, inv *ToolInvocation, err error) {
	fmt.Fprintf(c.Out, "[%s failed: %s]\n", inv.Qualified, err.Error())
}

func (c *PrinterCallback) OnAnswer(ctx context.Context, answer string) {}

// LoggerCallback writes progress to the package logger.
type LoggerCallback struct {
	logger *xlog.PackageLogger
}

func NewLoggerCallback(logger *xlog.PackageLogger) *LoggerCallback {
	return &LoggerCallback{logger: logger}
}

var _ Callback = (*LoggerCallback)(nil)

func (c *LoggerCallback) OnQueryStart(ctx context.Context, query string) {
	c.logger.ContextKV(ctx, xlog.DEBUG, "event", "query_start", "query", query)
}

func (c *LoggerCallback) OnDecision(ctx context.Context, decision *Decision) {
	if decision.Kind == DecisionToolCall {
		c.logger.ContextKV(ctx, xlog.DEBUG, "event", "decision", "tool", decision.Invocation.Qualified)
	} else {
		c.logger.ContextKV(ctx, xlog.DEBUG, "event", "decision", "action", "answer")
	}
}

func (c *LoggerCallback) OnToolStart(ctx context.Context, inv *ToolInvocation) {
	c.logger.ContextKV(ctx, xlog.DEBUG, "event", "tool_start", "tool", inv.Qualified)
}

func (c *LoggerCallback) OnToolEnd(ctx context.Context, inv *ToolInvocation, result *toolserver.Result) {
	c.logger.ContextKV(ctx, xlog.DEBUG, "event", "tool_end", "tool", inv.Qualified)
}

func (c *LoggerCallback) OnToolError(ctx context.Context, inv *ToolInvocation, err error) {
	c.logger.ContextKV(ctx, xlog.ERROR, "event", "tool_error", "tool", inv.Qualified, "err", err.Error())
}

func (c *LoggerCallback) OnAnswer(ctx context.Context, answer string) {
	c.logger.ContextKV(ctx, xlog.DEBUG, "event", "answer")
}
