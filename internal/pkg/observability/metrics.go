package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkInsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldsync",
		Subsystem: "checkins",
		Name:      "received_total",
		Help:      "Location events accepted and stored.",
	}, []string{"event"})
	checkInsDuplicate = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldsync",
		Subsystem: "checkins",
		Name:      "duplicates_total",
		Help:      "Re-delivered entries collapsed into an existing record.",
	})
	checkInsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldsync",
		Subsystem: "checkins",
		Name:      "rejected_outside_radius_total",
		Help:      "Location events rejected for being outside the job-site radius.",
	})
)

func init() {
	prometheus.MustRegister(checkInsReceived, checkInsDuplicate, checkInsRejected)
}

// RecordCheckInReceived counts one stored location event.
func RecordCheckInReceived(event string) {
	checkInsReceived.WithLabelValues(event).Inc()
}

// RecordCheckInDuplicate counts one collapsed re-delivery.
func RecordCheckInDuplicate() {
	checkInsDuplicate.Inc()
}

// RecordCheckInRejected counts one radius rejection.
func RecordCheckInRejected() {
	checkInsRejected.Inc()
}
