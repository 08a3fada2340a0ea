package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	newsIngested  *prometheus.CounterVec
	incidents     *prometheus.CounterVec
	signals       *prometheus.CounterVec
	opportunities *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		newsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_news_ingested_total",
				Help: "Total number of news items ingested",
			},
			[]string{"source"},
		),
		incidents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_incidents_classified_total",
				Help: "Total number of incidents classified",
			},
			[]string{"type"},
		),
		signals: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_signals_created_total",
				Help: "Total number of signals created",
			},
			[]string{"symbol"},
		),
		opportunities: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_opportunities_generated_total",
				Help: "Total number of opportunities generated",
			},
			[]string{"type"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordNewsIngested records ingested news items for a source.
func (r *Recorder) RecordNewsIngested(source string, n int) {
	r.newsIngested.WithLabelValues(source).Add(float64(n))
}

// RecordIncidentClassified records a classified incident.
func (r *Recorder) RecordIncidentClassified(incidentType string) {
	r.incidents.WithLabelValues(incidentType).Inc()
}

// RecordSignalCreated records a created signal.
func (r *Recorder) RecordSignalCreated(symbol string) {
	r.signals.WithLabelValues(symbol).Inc()
}

// RecordOpportunityGenerated records a generated opportunity.
func (r *Recorder) RecordOpportunityGenerated(oppType string) {
	r.opportunities.WithLabelValues(oppType).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
