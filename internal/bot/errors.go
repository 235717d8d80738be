// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package bot

import "errors"

// Construction errors.
var (
	ErrNilClient = errors.New("client cannot be nil")
	ErrNilBus    = errors.New("event bus cannot be nil")
	ErrNilData   = errors.New("game data cannot be nil")
)
