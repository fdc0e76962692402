package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TodoTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "officeops",
		Subsystem: "todo",
		Name:      "transitions_total",
		Help:      "Todo status transitions by operation and resulting status.",
	}, []string{"operation", "status"})

	TodoWarningPoints = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "officeops",
		Subsystem: "todo",
		Name:      "warning_points_total",
		Help:      "Warning points issued by level.",
	}, []string{"level"})

	TodoRatings = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "officeops",
		Subsystem: "todo",
		Name:      "rating",
		Help:      "Automatic ratings assigned on completion.",
		Buckets:   []float64{15, 30, 45, 60, 75, 85, 95},
	})

	RequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "officeops",
		Subsystem: "assets",
		Name:      "request_transitions_total",
		Help:      "Request status changes by operation and resulting status.",
	}, []string{"operation", "status"})

	AssetStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "officeops",
		Subsystem: "assets",
		Name:      "status_changes_total",
		Help:      "Asset status changes by resulting status.",
	}, []string{"status"})

	AssetCodesAllocated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "officeops",
		Subsystem: "assets",
		Name:      "codes_allocated_total",
		Help:      "Asset codes allocated by prefix.",
	}, []string{"prefix"})
)
