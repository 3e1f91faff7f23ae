// Package metricskey declares the metrics emitted by the query pipeline.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsQueriesSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_queries_succeeded",
		Help:         "stats_queries_succeeded provides total queries answered",
		RequiredTags: []string{"session"},
	}

	StatsQueriesFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_queries_failed",
		Help:         "stats_queries_failed provides total queries that degraded to an apology",
		RequiredTags: []string{"session"},
	}

	StatsDecisionParseErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_decision_parse_errors",
		Help:         "stats_decision_parse_errors provides total LLM decisions that could not be parsed",
		RequiredTags: []string{"session"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"server", "tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"server", "tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls to servers absent from the registry",
		RequiredTags: []string{"server"},
	}

	StatsServerConnectsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_server_connects_failed",
		Help:         "stats_server_connects_failed provides total tool server connection failures",
		RequiredTags: []string{"server"},
	}
)

// Perf
var (
	PerfQuery = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_query",
		Help:         "perf_query provides duration of a full query round trip",
		RequiredTags: []string{"session"},
	}

	PerfLLMCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_llm_call",
		Help:         "perf_llm_call provides duration of a single LLM call",
		RequiredTags: []string{"phase"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)
