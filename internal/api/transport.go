// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package api

import (
	"context"

	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

// StatusOK is the envelope status code of a usable response.
const StatusOK = 1

// Response is the envelope returned for one executed batch.
type Response struct {
	StatusCode int
	// Responses maps response keys (method names) to their payloads.
	Responses map[string]model.Raw
}

// Transport executes a batch of calls against the game server.
// Implementations return ErrThrottled when the server throttles requests.
// A nil response with a nil error means the server sent nothing for the batch.
type Transport interface {
	Execute(ctx context.Context, calls []state.Call) (*Response, error)
}
