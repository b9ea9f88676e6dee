package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_outcomes_total",
			Help: "Completed booking creations by final outcome",
		},
		[]string{"outcome"},
	)

	sagaStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_saga_step_duration_seconds",
			Help:    "Duration of each booking saga step",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	reservationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_reservation_results_total",
			Help: "Seat reservation attempts by result",
		},
		[]string{"result"},
	)

	outboxBacklog = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_outbox_pending_total",
			Help: "Notification outbox rows awaiting relay",
		},
	)

	outboxRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_outbox_relayed_total",
			Help: "Outbox messages relayed to the broker by result",
		},
		[]string{"result"},
	)
)

// BookingOutcome counts a finished CreateBooking call.  Outcome is one of
// confirmed, pending_payment, payment_unavailable, compensated or rejected.
func BookingOutcome(outcome string) {
	bookingOutcomes.WithLabelValues(outcome).Inc()
}

// SagaStep times one saga step; call with the step start time once the step
// finishes.
func SagaStep(step string, start time.Time) {
	sagaStepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

// ReservationResult counts a conditional seat adjustment by result
// (accepted, conflict, error).
func ReservationResult(result string) {
	reservationResults.WithLabelValues(result).Inc()
}

// OutboxRelayed counts one relay attempt (sent or failed).
func OutboxRelayed(result string) {
	outboxRelayed.WithLabelValues(result).Inc()
}

// WatchOutboxBacklog samples the pending outbox count every interval until
// ctx is cancelled.
func WatchOutboxBacklog(ctx context.Context, interval time.Duration, count func(context.Context) (int, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := count(ctx); err == nil {
				outboxBacklog.Set(float64(n))
			}
		}
	}
}
