// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesTotal tracks transcript turns appended, by role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total transcript turns appended",
		},
		[]string{"role"},
	)

	// LLMRequestDuration tracks model-call latency.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM completion request duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"model", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// ToolExecutionsTotal tracks tool executions by tool name and outcome.
	ToolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_executions_total",
			Help: "Total tool executions",
		},
		[]string{"tool", "status"},
	)

	// OrdersTotal tracks committed orders.
	OrdersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total orders committed",
		},
	)

	// OrderValue tracks the total value of committed orders.
	OrderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_value",
			Help:    "Value of committed orders",
			Buckets: []float64{10, 25, 50, 75, 100, 150, 250, 500},
		},
	)

	// ActiveSessions tracks the number of customer transcripts held in memory.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Customer transcripts currently held in memory",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMRequest records metrics for one model call.
func RecordLLMRequest(model, status string, duration float64, tokensIn, tokensOut int) {
	LLMRequestDuration.WithLabelValues(model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordToolExecution records one tool execution outcome.
func RecordToolExecution(tool, status string) {
	ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
}

// RecordOrder records one committed order.
func RecordOrder(total float64) {
	OrdersTotal.Inc()
	OrderValue.Observe(total)
}
