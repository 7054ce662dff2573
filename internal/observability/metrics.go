// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UsersRegistered counts successful registrations.
	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petition_users_registered_total",
		Help: "Total number of successful user registrations",
	})

	// LoginFailures counts failed login attempts by reason.
	LoginFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petition_login_failures_total",
		Help: "Total number of failed login attempts by reason",
	}, []string{"reason"})

	// SignaturesCreated counts petition signatures.
	SignaturesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petition_signatures_total",
		Help: "Total number of petition signatures created",
	})

	// SignaturesDeleted counts signature deletions.
	SignaturesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petition_signature_deletions_total",
		Help: "Total number of petition signatures deleted",
	})

	// AccountsDeleted counts account deletions.
	AccountsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petition_accounts_deleted_total",
		Help: "Total number of deleted accounts",
	})
)
