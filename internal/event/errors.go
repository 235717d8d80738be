// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package event

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes for bus failures.
const (
	CodeConfiguration = "CONFIGURATION"
	CodeListenerFault = "LISTENER_FAULT"
)

// Cancel is returned by a listener to stop the pipeline. Fire then reports
// ok == false without an error.
var Cancel = errors.New("event pipeline cancelled")

// ErrEmptyEventName creates an error for a registration without an event name.
func ErrEmptyEventName() error {
	return oops.Code(CodeConfiguration).
		In("event").
		Errorf("event name cannot be empty")
}

// ErrNilHandler creates an error for a nil listener registration.
func ErrNilHandler(name string) error {
	return oops.Code(CodeConfiguration).
		In("event").
		With("event", name).
		Errorf("listener for event %s cannot be nil", name)
}

// ErrListenerFault wraps an error returned by a listener.
func ErrListenerFault(name, listener string, cause error) error {
	return oops.Code(CodeListenerFault).
		In("event").
		With("event", name).
		With("listener", listener).
		Wrapf(cause, "listener %s failed on %s", listener, name)
}
