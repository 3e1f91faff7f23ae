package engine

import (
	"context"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/metricskey"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
)

// Dispatcher executes planned tool invocations against the registry. The
// planner can name servers that have since dropped or tools that never
// existed, so every invocation is revalidated here first.
type Dispatcher struct {
	registry *toolserver.Registry
	catalog  *toolserver.Catalog
}

// NewDispatcher creates a dispatcher over a registry and its catalog.
func NewDispatcher(registry *toolserver.Registry, catalog *toolserver.Catalog) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		catalog:  catalog,
	}
}

// Dispatch validates and executes one invocation. The session tool counter
// moves only on success.
func (d *Dispatcher) Dispatch(ctx context.Context, session *Session, inv *ToolInvocation) (*toolserver.Result, error) {
	if !d.registry.Has(inv.Server) {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, inv.Server)
		return nil, errors.WithMessagef(toolserver.ErrUnknownServer, "%s", inv.Server)
	}
	desc, ok := d.catalog.Find(inv.Qualified)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, inv.Server)
		return nil, errors.WithMessagef(toolserver.ErrUnknownServer, "no tool %q on %q", inv.Tool, inv.Server)
	}
	if err := toolserver.ValidateArguments(desc, inv.Arguments); err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, inv.Server, inv.Tool)
		return nil, err
	}

	started := time.Now()
	result, err := d.registry.Call(ctx, inv.Server, inv.Tool, inv.Arguments)
	metricskey.PerfToolCall.MeasureSince(started, inv.Qualified)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, inv.Server, inv.Tool)
		return nil, errors.WithMessagef(err, "tool %q failed", inv.Qualified)
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, inv.Server, inv.Tool)
	session.RecordToolCall()
	return result, nil
}
