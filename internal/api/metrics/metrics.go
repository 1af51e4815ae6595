// Package metrics defines and registers all custom Prometheus metrics for the
// auth service. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh-token rotations by outcome.
// Label:
//   - result: "success", "invalid", "expired", or "error"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of refresh-token rotations, labelled by result.",
	},
	[]string{"result"},
)

// SessionsRevokedTotal counts explicit session revocations.
// Label:
//   - scope: "single" (logout) or "all" (logout-all)
var SessionsRevokedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of explicit session revocations, by scope.",
	},
	[]string{"scope"},
)

// SweepDeletedTotal counts refresh tokens removed by the periodic sweep.
var SweepDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_deleted_total",
		Help:      "Total number of expired refresh tokens removed by the sweeper.",
	},
)

// LoginDuration measures how long a login takes end-to-end, including the
// password hash comparison.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login processing from request to token pair.",
		Buckets:   prometheus.DefBuckets,
	},
)
