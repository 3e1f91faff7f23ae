package engine

import (
	"context"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/metricskey"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// Apology is returned for any query the engine could not complete. The
// failure details go to the log, never to the user.
const Apology = "I'm sorry, I wasn't able to process that request. Please try rephrasing it or ask something else."

// Orchestrator runs the full plan, dispatch, interpret pipeline for one
// session. Process never panics outward and never returns an error; any
// failure becomes an apology and a counter bump.
type Orchestrator struct {
	planner     *Planner
	dispatcher  *Dispatcher
	interpreter *Interpreter
	registry    *toolserver.Registry
	catalog     *toolserver.Catalog
	session     *Session
	callback    Callback
}

// OrchestratorOption mutates orchestrator construction.
type OrchestratorOption func(*Orchestrator)

// WithCallback installs a progress callback.
func WithCallback(cb Callback) OrchestratorOption {
	return func(o *Orchestrator) {
		o.callback = cb
	}
}

// NewOrchestrator wires the pipeline for one session.
func NewOrchestrator(
	planner *Planner,
	dispatcher *Dispatcher,
	interpreter *Interpreter,
	registry *toolserver.Registry,
	catalog *toolserver.Catalog,
	session *Session,
	ops ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		planner:     planner,
		dispatcher:  dispatcher,
		interpreter: interpreter,
		registry:    registry,
		catalog:     catalog,
		session:     session,
		callback:    NewNoopCallback(),
	}
	for _, op := range ops {
		op(o)
	}
	return o
}

// Session returns the session this orchestrator serves.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Catalog returns the tool catalog in use.
func (o *Orchestrator) Catalog() *toolserver.Catalog {
	return o.catalog
}

// Process answers one user query. It always returns something presentable.
func (o *Orchestrator) Process(ctx context.Context, query string) string {
	started := time.Now()
	answer, err := o.process(ctx, query)
	metricskey.PerfQuery.MeasureSince(started, o.session.ID())
	if err != nil {
		o.session.RecordError()
		metricskey.StatsQueriesFailed.IncrCounter(1, o.session.ID())
		if errors.Is(err, ErrDecisionParse) {
			metricskey.StatsDecisionParseErrors.IncrCounter(1, o.session.ID())
		}
		logger.ContextKV(ctx, xlog.ERROR,
			"reason", "query_failed",
			"session", o.session.ID(),
			"err", err.Error(),
		)
		return Apology
	}
	metricskey.StatsQueriesSucceeded.IncrCounter(1, o.session.ID())
	return answer
}

func (o *Orchestrator) process(ctx context.Context, query string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic while processing query: %v", r)
		}
	}()

	o.callback.OnQueryStart(ctx, query)

	history := o.session.Recent(ctx, HistoryWindow)
	if err := o.session.AddUser(ctx, query); err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "history_write_failed", "err", err.Error())
	}

	decision, err := o.planner.Plan(ctx, o.catalog, history, query)
	if err != nil {
		return "", err
	}
	o.callback.OnDecision(ctx, decision)

	if decision.Kind == DecisionAnswer {
		o.remember(ctx, decision.Answer)
		o.callback.OnAnswer(ctx, decision.Answer)
		return decision.Answer, nil
	}

	inv := decision.Invocation
	o.callback.OnToolStart(ctx, inv)
	result, err := o.dispatcher.Dispatch(ctx, o.session, inv)
	if err != nil {
		o.callback.OnToolError(ctx, inv, err)
		return "", err
	}
	o.callback.OnToolEnd(ctx, inv, result)

	answer, err = o.interpreter.Interpret(ctx, query, inv, result)
	if err != nil {
		return "", err
	}
	o.remember(ctx, answer)
	o.callback.OnAnswer(ctx, answer)
	return answer, nil
}

func (o *Orchestrator) remember(ctx context.Context, answer string) {
	if err := o.session.AddAssistant(ctx, answer); err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "history_write_failed", "err", err.Error())
	}
}
