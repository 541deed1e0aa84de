package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	walletOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "operations_total",
		Help:      "Count of wallet submissions.",
	}, []string{"operation", "status"})

	walletOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "operation_duration_seconds",
		Help:      "Duration of wallet submissions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})

	walletTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "tokens_total",
		Help:      "Tokens moved by successful wallet submissions.",
	}, []string{"operation"})
)

// Wallet tracks metrics of wallet submissions.
type Wallet struct{}

func NewWallet() *Wallet {
	return &Wallet{}
}

// ObserveOperation records a stake or exchange outcome, duration and amount.
func (Wallet) ObserveOperation(op string, amount decimal.Decimal, err error, started time.Time) {
	walletOperationsTotal.WithLabelValues(op, status(err)).Inc()
	walletOperationDuration.WithLabelValues(op, status(err)).Observe(time.Since(started).Seconds())
	if err == nil && amount.IsPositive() {
		walletTokensTotal.WithLabelValues(op).Add(amount.InexactFloat64())
	}
}
