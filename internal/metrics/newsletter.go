package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	newsletterSignupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "newsletter",
		Name:      "signups_total",
		Help:      "Count of newsletter signups.",
	}, []string{"status"})

	newsletterBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "newsletter",
		Name:      "batch_duration_seconds",
		Help:      "Duration of confirming a batch of signups.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	newsletterBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "newsletter",
		Name:      "batch_size",
		Help:      "Number of signups confirmed per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1..128
	})
)

// Newsletter tracks footer newsletter signups.
type Newsletter struct{}

func NewNewsletter() *Newsletter {
	return &Newsletter{}
}

func (Newsletter) ObserveSignup(err error) {
	newsletterSignupsTotal.WithLabelValues(status(err)).Inc()
}

// ObserveBatch records the confirmation of a batch.
func (Newsletter) ObserveBatch(size int, err error, started time.Time) {
	newsletterBatchDuration.WithLabelValues(status(err)).Observe(time.Since(started).Seconds())
	newsletterBatchSize.Observe(float64(size))
}
