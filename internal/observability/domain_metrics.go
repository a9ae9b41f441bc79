package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablechat_translations_total",
			Help: "Natural-language to SQL translations served, by source.",
		},
		[]string{"source"},
	)
	statementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablechat_statements_total",
			Help: "SQL statements processed by the translation pipeline, by outcome.",
		},
		[]string{"outcome"},
	)
	storeQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablechat_store_queries_total",
			Help: "Typed queries issued to the store backend, by kind.",
		},
		[]string{"kind"},
	)
	chatLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tablechat_chat_latency_seconds",
			Help:    "End-to-end chat request latency including model calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
	)
	otpCallsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tablechat_otp_calls_total",
			Help: "Voice one-time-code calls placed.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		translationsTotal,
		statementsTotal,
		storeQueriesTotal,
		chatLatencySeconds,
		otpCallsTotal,
	)
}

// ObserveTranslation records where a translation came from: "cache" or
// "model".
func ObserveTranslation(source string) {
	translationsTotal.WithLabelValues(source).Inc()
}

// ObserveStatement records the pipeline outcome for one statement. The
// outcome is either "ok" or a translator error code.
func ObserveStatement(outcome string) {
	statementsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStoreQuery records one typed store call, kind "select" or
// "count".
func ObserveStoreQuery(kind string) {
	storeQueriesTotal.WithLabelValues(kind).Inc()
}

func ObserveChatLatency(elapsed time.Duration) {
	chatLatencySeconds.Observe(elapsed.Seconds())
}

func IncrementOTPCall() {
	otpCallsTotal.Inc()
}
