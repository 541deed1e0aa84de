package metrics

import (
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "ticks_total",
		Help:      "Count of simulated transactions by kind.",
	}, []string{"kind"})

	feedEnergyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "energy_kwh_total",
		Help:      "Simulated energy produced across all sessions.",
	})

	feedTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "tick_duration_seconds",
		Help:      "Duration of applying one simulated tick.",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
	})

	feedViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "viewers",
		Help:      "Number of connected live feed viewers.",
	})
)

// Feed tracks metrics of the simulated live feed.
type Feed struct{}

func NewFeed() *Feed {
	return &Feed{}
}

// ObserveTick records one simulated transaction.
func (Feed) ObserveTick(kind model.TxKind, energyDelta int, started time.Time) {
	feedTicksTotal.WithLabelValues(string(kind)).Inc()
	feedEnergyTotal.Add(float64(energyDelta))
	feedTickDuration.Observe(time.Since(started).Seconds())
}

// AddViewers moves the viewer gauge by delta.
func (Feed) AddViewers(delta int) {
	feedViewers.Add(float64(delta))
}
