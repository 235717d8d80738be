// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package event

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fire outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFault     = "fault"
	OutcomeUnhandled = "unhandled"
)

// Fired counts fires by event name and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Fired = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pogobot_events_fired_total",
		Help: "Total number of fired events by outcome",
	},
	[]string{"event", "outcome"},
)

// RegisterMetrics registers event package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Fired)
}
