package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call status labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds all Prometheus collectors used by the dice services.
type Metrics struct {
	Registry *prometheus.Registry

	RollsTotal       prometheus.Counter
	SetsTotal        prometheus.Counter
	DiceDrawn        prometheus.Histogram
	InvalidNotation  prometheus.Counter
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
}

// New creates and registers all dice metrics in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		RollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dicenotation_rolls_total",
			Help: "Total number of rolls evaluated.",
		}),

		SetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dicenotation_sets_total",
			Help: "Total number of sets rolled across all rolls.",
		}),

		DiceDrawn: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dicenotation_dice_drawn",
			Help:    "Number of dice drawn per roll, including rerolled dice.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),

		InvalidNotation: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dicenotation_invalid_notation_total",
			Help: "Total number of notation strings rejected by the parser.",
		}),

		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dicenotation_tool_calls_total",
			Help: "Total number of MCP tool calls.",
		}, []string{"tool", "status"}),

		ToolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dicenotation_tool_call_duration_seconds",
			Help:    "MCP tool call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool", "status"}),
	}

	reg.MustRegister(
		m.RollsTotal,
		m.SetsTotal,
		m.DiceDrawn,
		m.InvalidNotation,
		m.ToolCallsTotal,
		m.ToolCallDuration,
	)

	return m
}

// RecordRoll records one evaluated roll of sets sets drawing dice dice per set.
func (m *Metrics) RecordRoll(sets, dice int) {
	if m == nil {
		return
	}
	m.RollsTotal.Inc()
	m.SetsTotal.Add(float64(sets))
	m.DiceDrawn.Observe(float64(sets * dice))
}

// RecordInvalidNotation records a rejected notation string.
func (m *Metrics) RecordInvalidNotation() {
	if m == nil {
		return
	}
	m.InvalidNotation.Inc()
}

// ObserveToolCall records one MCP tool call and its latency.
func (m *Metrics) ObserveToolCall(tool string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolCallDuration.WithLabelValues(tool, status).Observe(elapsed.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
