// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Progress recompute outcomes.
const (
	RecomputeOK      = "ok"
	RecomputeSkipped = "skipped"
	RecomputeFailed  = "failed"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	ProgressRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_progress_recompute_total",
			Help: "Project progress recomputations by outcome",
		},
		[]string{"result"},
	)

	TaskMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_task_mutations_total",
			Help: "Task mutations by operation",
		},
		[]string{"operation"}, // create, update, status, bulk_status, delete
	)

	GraphQLOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_graphql_operations_total",
			Help: "GraphQL operations by outcome",
		},
		[]string{"result"}, // ok, error
	)

	MCPToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_mcp_tool_calls_total",
			Help: "MCP tool calls by tool and outcome",
		},
		[]string{"tool", "result"},
	)
)

// RecordHTTPRequestDuration observes a served HTTP request.
func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IncProgressRecompute counts a progress recompute outcome.
func IncProgressRecompute(result string) {
	ProgressRecomputes.WithLabelValues(result).Inc()
}

// IncTaskMutation counts a task mutation.
func IncTaskMutation(operation string) {
	TaskMutations.WithLabelValues(operation).Inc()
}

// IncGraphQLOperation counts a GraphQL operation outcome.
func IncGraphQLOperation(result string) {
	GraphQLOperations.WithLabelValues(result).Inc()
}

// IncMCPToolCall counts an MCP tool call outcome.
func IncMCPToolCall(tool, result string) {
	MCPToolCalls.WithLabelValues(tool, result).Inc()
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
