// Package metrics exposes Gateway-HTTP's /metrics endpoint: open handle
// count, repository cache size, LLM call counters/latency, and accumulated
// cost-tracker totals.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors registered against a private registry, so
// multiple *Metrics instances in tests never collide on the default
// global registry.
type Metrics struct {
	registry *prometheus.Registry

	handleCount  prometheus.Gauge
	cacheBytes   prometheus.Gauge
	llmCalls     *prometheus.CounterVec
	llmErrors    *prometheus.CounterVec
	llmLatency   *prometheus.HistogramVec
	costTotalUSD prometheus.Gauge
}

// New builds a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		handleCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kit_open_handles",
			Help: "Number of repository handles currently open in the registry.",
		}),
		cacheBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kit_repo_cache_bytes",
			Help: "Total size in bytes of the on-disk repository cache.",
		}),
		llmCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kit_llm_calls_total",
			Help: "Total LLM summarize calls, by provider and model.",
		}, []string{"provider", "model"}),
		llmErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kit_llm_call_errors_total",
			Help: "Total failed LLM summarize calls, by provider and model.",
		}, []string{"provider", "model"}),
		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kit_llm_call_duration_seconds",
			Help:    "LLM summarize call latency, by provider and model.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "model"}),
		costTotalUSD: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kit_review_cost_usd_total",
			Help: "Accumulated USD cost tracked across review runs in this process.",
		}),
	}
}

// Handler serves the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SetHandleCount(n int)      { m.handleCount.Set(float64(n)) }
func (m *Metrics) SetCacheBytes(n int64)     { m.cacheBytes.Set(float64(n)) }
func (m *Metrics) SetCostTotalUSD(usd float64) { m.costTotalUSD.Set(usd) }

// ObserveLLMCall records one Summarize call's outcome and latency.
func (m *Metrics) ObserveLLMCall(provider, model string, d time.Duration, err error) {
	m.llmCalls.WithLabelValues(provider, model).Inc()
	if err != nil {
		m.llmErrors.WithLabelValues(provider, model).Inc()
	}
	m.llmLatency.WithLabelValues(provider, model).Observe(d.Seconds())
}
