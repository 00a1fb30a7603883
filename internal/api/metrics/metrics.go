// Package metrics defines and registers all custom Prometheus metrics for the
// inspection monitoring API. It is the single source of truth for metric
// names, labels, and help strings. Registration happens at import time via
// promauto and the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inspection"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "not_registered", "blocked", "pending"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// SignupsTotal counts signup attempts.
// Labels:
//   - role: requested role ("user" or "admin")
//   - result: "success", "confirmation_pending", "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, labelled by role and outcome.",
	},
	[]string{"role", "result"},
)

// ReconcileRetriesTotal counts profile inserts retried after a foreign-key
// violation during signup reconciliation.
var ReconcileRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_reconcile_retries_total",
		Help:      "Total number of profile insert retries caused by foreign-key races.",
	},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "checking", "redirect_login", "redirect_home", "restricted", "allow"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard evaluations, labelled by decision.",
	},
	[]string{"decision"},
)

// ── Detection event metrics ───────────────────────────────────────────────────

// EventsProcessedTotal counts detection events persisted successfully.
// Labels:
//   - zone: inspection zone ("A".."D")
//   - severity: "low", "medium", "high"
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of detection events successfully processed.",
	},
	[]string{"zone", "severity"},
)

// EventsErrorsTotal counts events that failed processing.
// Label:
//   - reason: short description ("invalid_severity", "unknown_zone", "insert_failed")
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of detection events that failed processing.",
	},
	[]string{"reason"},
)

// QueueDepth tracks the number of detection events waiting in each worker's
// channel.
// Label:
//   - worker: worker index as a string
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "event_queue_depth",
		Help:      "Number of detection events queued per dispatcher worker.",
	},
	[]string{"worker"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
