// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package plugin

import "context"

// Host manages plugins of one runtime type.
type Host interface {
	// Load initializes a plugin from its manifest and registers its listeners.
	Load(ctx context.Context, manifest *Manifest, dir string) error

	// Unload removes a plugin and its listeners.
	Unload(ctx context.Context, name string) error

	// Plugins returns the names of loaded plugins.
	Plugins() []string

	// Close unloads every plugin.
	Close(ctx context.Context) error
}
