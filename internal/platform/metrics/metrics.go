// Package metrics holds the Prometheus instruments for the voting service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	BallotsSubmitted  prometheus.Counter
	BallotsRejected   *prometheus.CounterVec
	VotesReset        prometheus.Counter
	TalliesComputed   prometheus.Counter
	TallyCacheHits    prometheus.Counter
	TallyCacheMisses  prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
	StatusSyncUpdates prometheus.Counter
}

// New creates and registers all metrics with the default registry.
func New() *Metrics {
	return newWithRegisterer(prometheus.DefaultRegisterer)
}

// NewForTesting creates metrics against a private registry so parallel tests
// do not collide on duplicate registration.
func NewForTesting() *Metrics {
	return newWithRegisterer(prometheus.NewRegistry())
}

func newWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BallotsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "univote_ballots_submitted_total",
			Help: "Total number of ballots accepted into the ledger",
		}),
		BallotsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "univote_ballots_rejected_total",
			Help: "Total number of rejected ballot submissions by reason code",
		}, []string{"reason"}),
		VotesReset: factory.NewCounter(prometheus.CounterOpts{
			Name: "univote_votes_reset_total",
			Help: "Total number of administrative vote resets",
		}),
		TalliesComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "univote_tallies_computed_total",
			Help: "Total number of tally computations against the ledger",
		}),
		TallyCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "univote_tally_cache_hits_total",
			Help: "Total number of tally reads served from cache",
		}),
		TallyCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "univote_tally_cache_misses_total",
			Help: "Total number of tally reads that missed the cache",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "univote_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		StatusSyncUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "univote_status_sync_updates_total",
			Help: "Total number of election status rows refreshed by the sync worker",
		}),
	}
}

// RecordRejection increments the rejection counter for a reason code.
// Nil-safe so services can run without metrics in tests.
func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.BallotsRejected.WithLabelValues(reason).Inc()
}
