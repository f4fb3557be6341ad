package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus metrics for the analysis pipeline.
type Metrics struct {
	AnalysesTotal *prometheus.CounterVec // labels: outcome
	AnalysisDur   prometheus.Histogram
	FetchDur      prometheus.Histogram
}

// Outcome labels for AnalysesTotal.
const (
	OutcomeOK               = "ok"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeRetrievalFailure = "retrieval_failure"
	OutcomeError            = "error"
)

// New registers and returns all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlogic_analyses_total",
			Help: "Total analysis runs by outcome",
		}, []string{"outcome"}),
		AnalysisDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketlogic_analysis_duration_seconds",
			Help:    "End-to-end analysis latency (fetch, derive, score)",
			Buckets: prometheus.DefBuckets,
		}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketlogic_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.AnalysesTotal, m.AnalysisDur, m.FetchDur)
	return m
}

// ObserveOutcome increments the analyses counter. Safe on a nil receiver
// so callers without metrics wired don't need guards.
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

// ObserveAnalysis records the end-to-end analysis duration in seconds.
func (m *Metrics) ObserveAnalysis(seconds float64) {
	if m == nil {
		return
	}
	m.AnalysisDur.Observe(seconds)
}

// ObserveFetch records the market data fetch duration in seconds.
func (m *Metrics) ObserveFetch(seconds float64) {
	if m == nil {
		return
	}
	m.FetchDur.Observe(seconds)
}
