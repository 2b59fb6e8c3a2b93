package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry aggregates the service's prometheus instruments. Exposed via
// the /metrics endpoint.
type Telemetry struct {
	TurnsTotal       *prometheus.CounterVec
	TurnDuration     prometheus.Histogram
	ToolExecutions   *prometheus.CounterVec
	ProviderCalls    *prometheus.CounterVec
	ProviderFallback prometheus.Counter
}

// New registers the service instruments on the default registry.
func New() *Telemetry {
	return &Telemetry{
		TurnsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentd_turns_total",
			Help: "Conversation turns processed, by outcome.",
		}, []string{"outcome"}),
		TurnDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentd_turn_duration_seconds",
			Help:    "Wall-clock duration of a conversation turn.",
			Buckets: prometheus.DefBuckets,
		}),
		ToolExecutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentd_tool_executions_total",
			Help: "Tool executions, by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		ProviderCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentd_provider_calls_total",
			Help: "Provider chat calls, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderFallback: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agentd_provider_fallbacks_total",
			Help: "Turns answered with the template fallback.",
		}),
	}
}

// ObserveTurn records one finished turn.
func (t *Telemetry) ObserveTurn(outcome string, d time.Duration) {
	if t == nil {
		return
	}
	t.TurnsTotal.WithLabelValues(outcome).Inc()
	t.TurnDuration.Observe(d.Seconds())
}

// ObserveTool records one tool execution.
func (t *Telemetry) ObserveTool(tool, outcome string) {
	if t == nil {
		return
	}
	t.ToolExecutions.WithLabelValues(tool, outcome).Inc()
}

// ObserveProviderCall records one provider chat call.
func (t *Telemetry) ObserveProviderCall(provider, outcome string) {
	if t == nil {
		return
	}
	t.ProviderCalls.WithLabelValues(provider, outcome).Inc()
}

// ObserveFallback records a fallback answer.
func (t *Telemetry) ObserveFallback() {
	if t == nil {
		return
	}
	t.ProviderFallback.Inc()
}
