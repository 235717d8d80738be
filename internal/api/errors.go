// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package api

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes for call failures.
const (
	CodeNoResponse = "NO_RESPONSE"
)

// ErrThrottled is returned by a Transport when the server throttles requests.
var ErrThrottled = errors.New("request throttled by server")

// ErrNilTransport is returned when a Client is created without a transport.
var ErrNilTransport = errors.New("transport cannot be nil")

// ErrNilStore is returned when a Client is created without a store.
var ErrNilStore = errors.New("store cannot be nil")

// ErrNoResponse is wrapped by errors returned when a batch got no usable
// response after all attempts.
var ErrNoResponse = errors.New("no response from server")

// errBadStatus marks a response envelope whose status code is not OK.
var errBadStatus = errors.New("unexpected response status")

// errEmptyResponse marks a transport that answered without a response.
var errEmptyResponse = errors.New("empty response")

func noResponseError(batchID string, attempts uint64, last error) error {
	b := oops.Code(CodeNoResponse).
		In("api").
		With("batch_id", batchID).
		With("attempts", attempts)
	if last != nil {
		b = b.With("cause", last.Error())
	}
	return b.Wrap(ErrNoResponse)
}
