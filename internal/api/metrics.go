// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pogobot/pogobot/internal/state"
)

// Call outcomes.
const (
	OutcomeExecuted = "executed"
	OutcomeCached   = "cached"
)

// Batch statuses.
const (
	BatchSuccess    = "success"
	BatchCached     = "cached"
	BatchNoResponse = "no_response"
	BatchError      = "error"
)

// Calls counts queued calls by method and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Calls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pogobot_api_calls_total",
		Help: "Total number of queued API calls by outcome",
	},
	[]string{"method", "outcome"},
)

// Batches counts call batches by status.
// Use RegisterMetrics to register this with a Prometheus registry.
var Batches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pogobot_api_batches_total",
		Help: "Total number of API call batches",
	},
	[]string{"status"},
)

// RegisterMetrics registers api package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Calls)
	reg.MustRegister(Batches)
}

func recordCalls(all, executed []state.Call) {
	counts := make(map[state.Method]int, len(all))
	for _, c := range all {
		counts[c.Method]++
	}
	for _, c := range executed {
		counts[c.Method]--
		Calls.WithLabelValues(string(c.Method), OutcomeExecuted).Inc()
	}
	for m, n := range counts {
		if n > 0 {
			Calls.WithLabelValues(string(m), OutcomeCached).Add(float64(n))
		}
	}
}
