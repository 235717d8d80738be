// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package plugin

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/samber/oops"

	"github.com/pogobot/pogobot/pkg/errutil"
)

// ManifestFile is the manifest file name inside a plugin directory.
const ManifestFile = "plugin.yaml"

// Manager discovers plugins and loads them into the Lua host.
type Manager struct {
	pluginsDir string
	botVersion string
	luaHost    Host
	disabled   map[string]bool
	logger     *slog.Logger
	loaded     map[string]*DiscoveredPlugin
	mu         sync.RWMutex
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLuaHost sets the Lua host for the manager.
func WithLuaHost(h Host) ManagerOption {
	return func(m *Manager) {
		m.luaHost = h
	}
}

// WithDisabled skips the named plugins during LoadAll.
func WithDisabled(names ...string) ManagerOption {
	return func(m *Manager) {
		for _, n := range names {
			m.disabled[n] = true
		}
	}
}

// WithBotVersion sets the version checked against manifest requires
// constraints. Without it no compatibility check is made.
func WithBotVersion(v string) ManagerOption {
	return func(m *Manager) {
		m.botVersion = v
	}
}

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a plugin manager.
func NewManager(pluginsDir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		pluginsDir: pluginsDir,
		disabled:   make(map[string]bool),
		logger:     slog.Default(),
		loaded:     make(map[string]*DiscoveredPlugin),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DiscoveredPlugin contains a manifest and its directory.
type DiscoveredPlugin struct {
	Manifest *Manifest
	Dir      string
}

// Discover finds all valid plugins in the plugins directory. Directories
// without a manifest or with an invalid one are logged and skipped; a
// missing plugins directory yields no plugins.
func (m *Manager) Discover(_ context.Context) ([]*DiscoveredPlugin, error) {
	entries, err := os.ReadDir(m.pluginsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, oops.In("plugin").With("dir", m.pluginsDir).Wrapf(err, "read plugins directory")
	}

	var plugins []*DiscoveredPlugin
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.pluginsDir, entry.Name())
		manifest, err := ReadManifest(dir)
		if err != nil {
			m.logger.Warn("skipping plugin", "dir", entry.Name(), "error", err)
			continue
		}
		plugins = append(plugins, &DiscoveredPlugin{Manifest: manifest, Dir: dir})
	}
	return plugins, nil
}

// ReadManifest reads, schema-checks and validates the manifest in dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the configured plugins directory
	if err != nil {
		return nil, oops.In("plugin").With("path", path).Wrapf(err, "read manifest")
	}
	if err := ValidateSchema(data); err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return m, nil
}

// LoadAll discovers and loads every enabled plugin. Individual plugin
// failures are logged and do not stop the others from loading.
func (m *Manager) LoadAll(ctx context.Context) error {
	discovered, err := m.Discover(ctx)
	if err != nil {
		return err
	}

	for _, dp := range discovered {
		if m.disabled[dp.Manifest.Name] {
			m.logger.Info("plugin disabled", "plugin", dp.Manifest.Name)
			continue
		}
		if err := m.Load(ctx, dp); err != nil {
			errutil.LogError(m.logger, "failed to load plugin", err)
		}
	}
	return nil
}

// Load loads a single discovered plugin.
func (m *Manager) Load(ctx context.Context, dp *DiscoveredPlugin) error {
	name := dp.Manifest.Name
	if m.botVersion != "" {
		ok, err := dp.Manifest.Compatible(m.botVersion)
		if err != nil {
			return err
		}
		if !ok {
			return oops.Code(CodeInvalidManifest).
				In("plugin").
				With("plugin", name).
				With("requires", dp.Manifest.Requires).
				With("bot_version", m.botVersion).
				Errorf("plugin %s does not support this bot version", name)
		}
	}
	if m.luaHost == nil {
		m.logger.Warn("no Lua host configured, skipping Lua plugin", "plugin", name)
		return nil
	}
	if err := m.luaHost.Load(ctx, dp.Manifest, dp.Dir); err != nil {
		return oops.In("plugin").With("plugin", name).Wrap(err)
	}

	m.mu.Lock()
	m.loaded[name] = dp
	m.mu.Unlock()

	m.logger.Info("loaded plugin", "plugin", name, "type", dp.Manifest.Type, "version", dp.Manifest.Version)
	return nil
}

// ListPlugins returns the sorted names of loaded plugins.
func (m *Manager) ListPlugins() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.loaded))
	for name := range m.loaded {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close forgets every loaded plugin and closes the host.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loaded = make(map[string]*DiscoveredPlugin)
	if m.luaHost != nil {
		if err := m.luaHost.Close(ctx); err != nil {
			return oops.In("plugin").Wrapf(err, "close lua host")
		}
	}
	return nil
}
