package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "officeops",
	Subsystem: "authz",
	Name:      "decisions_total",
	Help:      "Authorization decisions broken down by mode, object and result.",
}, []string{"mode", "object", "result"})

func recordDecision(mode Mode, object string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	decisions.WithLabelValues(string(mode), object, result).Inc()
}
