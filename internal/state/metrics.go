// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package state

import (
	"github.com/prometheus/client_golang/prometheus"
)

// UnhandledResponses counts response keys without a parser.
// Use RegisterMetrics to register this with a Prometheus registry.
var UnhandledResponses = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pogobot_unhandled_responses_total",
		Help: "Total number of response keys without a parser",
	},
	[]string{"key"},
)

// RegisterMetrics registers state package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(UnhandledResponses)
}
