// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package main

import (
	"context"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/observability"
)

// RunDeps contains injectable dependencies for the run command.
// All fields with nil values will use their default implementations.
type RunDeps struct {
	// TransportFactory opens the API transport for the configured script.
	// Default: api.LoadScript
	TransportFactory func(script string) (api.Transport, error)

	// GameDataLoader loads the static item and pokemon tables.
	// Default: gamedata.Load
	GameDataLoader func() (*gamedata.Data, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker, opts ...observability.ServerOption) ObservabilityServer
}

// ObservabilityServer is the subset of observability.Server used by run.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Metrics() *observability.Metrics
}

func (d *RunDeps) withDefaults() *RunDeps {
	out := RunDeps{}
	if d != nil {
		out = *d
	}
	if out.TransportFactory == nil {
		out.TransportFactory = func(script string) (api.Transport, error) {
			t, err := api.LoadScript(script)
			if err != nil {
				return nil, err
			}
			return t, nil
		}
	}
	if out.GameDataLoader == nil {
		out.GameDataLoader = gamedata.Load
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker, opts ...observability.ServerOption) ObservabilityServer {
			return observability.NewServer(addr, ready, opts...)
		}
	}
	return &out
}
