package metrics

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authSignInTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "signin_total",
		Help:      "Count of sign-in attempts by outcome.",
	}, []string{"status"})

	authSignInDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "signin_duration_seconds",
		Help:      "Duration of sign-in attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// Auth tracks metrics of sign-in calls.
type Auth struct{}

func NewAuth() *Auth {
	return &Auth{}
}

// ObserveSignIn records a sign-in outcome: success, rejected, invalid or error.
func (Auth) ObserveSignIn(err error, started time.Time) {
	outcome := signInOutcome(err)
	authSignInTotal.WithLabelValues(outcome).Inc()
	authSignInDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

func signInOutcome(err error) string {
	var signInErr *auth.SignInError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, auth.ErrMissingCredentials):
		return "invalid"
	case errors.As(err, &signInErr) && signInErr.Err == nil:
		return "rejected"
	default:
		return "error"
	}
}
