// Package metrics provides Prometheus metrics for the notification service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SMSSentTotal counts send attempts by event and outcome.
	SMSSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkin",
			Name:      "sms_sent_total",
			Help:      "Total number of SMS send attempts",
		},
		[]string{"event", "status"},
	)

	// DispatchDuration measures how long a whole batch takes.
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "checkin",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of dispatch batches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	// EligibilitySkipped counts members left out of a notification, by reason.
	EligibilitySkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkin",
			Name:      "eligibility_skipped_total",
			Help:      "Members not notified, by reason",
		},
		[]string{"event", "reason"},
	)

	// DedupClaims counts daily artifact claims by outcome.
	DedupClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkin",
			Name:      "dedup_claims_total",
			Help:      "Daily artifact claims by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// IdentityLookupFailures counts failed bulk identity listings.
	IdentityLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkin",
			Name:      "identity_lookup_failures_total",
			Help:      "Failed identity provider user listings",
		},
	)
)

// RecordSend records one send attempt
func RecordSend(event, status string) {
	SMSSentTotal.WithLabelValues(event, status).Inc()
}

// RecordDispatch records a finished batch
func RecordDispatch(event string, duration float64) {
	DispatchDuration.WithLabelValues(event).Observe(duration)
}

// RecordSkipped adds n skipped members for the reason
func RecordSkipped(event, reason string, n int) {
	if n <= 0 {
		return
	}
	EligibilitySkipped.WithLabelValues(event, reason).Add(float64(n))
}

// RecordClaim records a dedup claim outcome ("claimed", "conflict", "error")
func RecordClaim(kind, outcome string) {
	DedupClaims.WithLabelValues(kind, outcome).Inc()
}

// RecordIdentityLookupFailure increments the identity failure counter
func RecordIdentityLookupFailure() {
	IdentityLookupFailures.Inc()
}
