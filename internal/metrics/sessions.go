package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsOpenedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sessions",
		Name:      "opened_total",
		Help:      "Count of session creation attempts.",
	}, []string{"status"})

	sessionsClosedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sessions",
		Name:      "closed_total",
		Help:      "Count of closed sessions by reason.",
	}, []string{"reason"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Number of open sessions.",
	})
)

// Sessions tracks the session store.
type Sessions struct{}

func NewSessions() *Sessions {
	return &Sessions{}
}

func (Sessions) ObserveOpened(err error) {
	sessionsOpenedTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		sessionsActive.Inc()
	}
}

func (Sessions) ObserveClosed(reason string) {
	sessionsClosedTotal.WithLabelValues(reason).Inc()
	sessionsActive.Dec()
}
