package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	SeatsClaimed      prometheus.Counter
	SeatConflicts     prometheus.Counter
	EmailsSent        *prometheus.CounterVec
	EmailFailures     *prometheus.CounterVec
	PaymentProxyCalls *prometheus.CounterVec
}

// New creates new prometheus metrics registered on the default registry
func New(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of confirmed bookings",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of cancelled bookings",
		}),
		SeatsClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seats_claimed_total",
			Help:      "The total number of seats claimed in the ledger",
		}),
		SeatConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_conflicts_total",
			Help:      "The total number of seat claims rejected as already booked",
		}),
		EmailsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "The total number of notification emails sent",
		}, []string{"kind"}),
		EmailFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_failures_total",
			Help:      "The total number of notification emails that failed to send",
		}, []string{"kind"}),
		PaymentProxyCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_proxy_calls_total",
			Help:      "The total number of payment provider calls by operation and outcome",
		}, []string{"operation", "outcome"}),
	}
}
