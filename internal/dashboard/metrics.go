package dashboard

import "github.com/prometheus/client_golang/prometheus"

var (
	refreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferdash",
			Subsystem: "dashboard",
			Name:      "refreshes_total",
			Help:      "Total aggregate refreshes by outcome",
		},
		[]string{"outcome"},
	)

	refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "inferdash",
			Subsystem: "dashboard",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of successful aggregate refreshes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	controlOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferdash",
			Subsystem: "dashboard",
			Name:      "control_ops_total",
			Help:      "Total control operations by op and outcome",
		},
		[]string{"op", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(refreshesTotal, refreshDuration, controlOpsTotal)
}
