// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package state

import (
	"github.com/samber/oops"
)

// CodeConfiguration marks programming errors in the call table or its use.
const CodeConfiguration = "CONFIGURATION"

// ErrUnknownMethod creates an error for a method missing from the call table.
func ErrUnknownMethod(method Method) error {
	return oops.Code(CodeConfiguration).
		In("state").
		With("method", string(method)).
		Hint("add the method to the call classification table").
		Errorf("unknown method: %s", method)
}

// ErrUnknownKey creates an error for a descriptor naming an unknown state key.
func ErrUnknownKey(method Method, key Key) error {
	return oops.Code(CodeConfiguration).
		In("state").
		With("method", string(method)).
		With("key", string(key)).
		Errorf("method %s references unknown state key %q", method, key)
}

// ErrEmptyMethod creates an error for a descriptor without a method name.
func ErrEmptyMethod() error {
	return oops.Code(CodeConfiguration).
		In("state").
		Errorf("method name cannot be empty")
}
