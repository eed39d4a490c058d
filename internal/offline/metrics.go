package offline

import "github.com/prometheus/client_golang/prometheus"

var (
	queuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldsync",
		Subsystem: "offline_queue",
		Name:      "entries_queued_total",
		Help:      "Location entries durably queued.",
	})
	deliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldsync",
		Subsystem: "offline_queue",
		Name:      "entries_delivered_total",
		Help:      "Location entries delivered to the server and dequeued.",
	})
	deliveryFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldsync",
		Subsystem: "offline_queue",
		Name:      "delivery_failures_total",
		Help:      "Delivery attempts that failed and were scheduled for retry.",
	})
	parkedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldsync",
		Subsystem: "offline_queue",
		Name:      "entries_parked_total",
		Help:      "Entries parked as failed after exhausting delivery attempts.",
	})
	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fieldsync",
		Subsystem: "offline_queue",
		Name:      "depth",
		Help:      "Entries currently in the durable queue.",
	})
)

func init() {
	prometheus.MustRegister(queuedTotal, deliveredTotal, deliveryFailedTotal, parkedTotal, queueDepth)
}
