// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package bot

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Step outcomes.
const (
	StepOK        = "ok"
	StepTransient = "transient"
	StepFault     = "fault"
)

// Steps counts Run steps by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Steps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pogobot_bot_steps_total",
		Help: "Total number of bot steps by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers bot package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Steps)
}
