// Package metrics registers the Prometheus instruments shared across
// domains. Domain services hold a *Metrics and call the increment helpers;
// a nil receiver is safe so unit tests can skip registration.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SignupsTotal       prometheus.Counter
	StartupsRegistered prometheus.Counter
	StartupsModerated  *prometheus.CounterVec
	ReviewsCreated     *prometheus.CounterVec
	ViewsRecorded      prometheus.Counter
	ViewsDeduplicated  prometheus.Counter
	SearchDuration     prometheus.Histogram
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		SignupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foundry_signups_total",
			Help: "Total number of accounts created.",
		}),
		StartupsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foundry_startups_registered_total",
			Help: "Total number of startups submitted for approval.",
		}),
		StartupsModerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_startups_moderated_total",
			Help: "Admin moderation decisions by outcome.",
		}, []string{"outcome"}),
		ReviewsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_reviews_created_total",
			Help: "Reviews accepted, labeled by sentiment.",
		}, []string{"sentiment"}),
		ViewsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foundry_views_recorded_total",
			Help: "Startup page views that inserted a new row.",
		}),
		ViewsDeduplicated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foundry_views_deduplicated_total",
			Help: "Startup page views short-circuited by cookie, marker, or row check.",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "foundry_search_duration_seconds",
			Help:    "Latency of directory search queries.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncSignups() {
	if m != nil {
		m.SignupsTotal.Inc()
	}
}

func (m *Metrics) IncStartupsRegistered() {
	if m != nil {
		m.StartupsRegistered.Inc()
	}
}

func (m *Metrics) IncStartupsModerated(outcome string) {
	if m != nil {
		m.StartupsModerated.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncReviewsCreated(sentiment string) {
	if m != nil {
		m.ReviewsCreated.WithLabelValues(sentiment).Inc()
	}
}

func (m *Metrics) IncViewsRecorded() {
	if m != nil {
		m.ViewsRecorded.Inc()
	}
}

func (m *Metrics) IncViewsDeduplicated() {
	if m != nil {
		m.ViewsDeduplicated.Inc()
	}
}

func (m *Metrics) ObserveSearchDuration(seconds float64) {
	if m != nil {
		m.SearchDuration.Observe(seconds)
	}
}
