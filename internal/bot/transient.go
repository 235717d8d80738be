// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package bot

import (
	"errors"

	"github.com/pogobot/pogobot/internal/api"
)

// isTransient reports whether a step failure is worth retrying.
func isTransient(err error) bool {
	return errors.Is(err, api.ErrNoResponse)
}
