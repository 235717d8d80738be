// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

//nolint:gocritic // captLocal: L is the idiomatic name for lua.LState
package lua

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/pogobot/pogobot/internal/event"
	plugins "github.com/pogobot/pogobot/internal/plugin"
	"github.com/pogobot/pogobot/internal/plugin/capability"
	"github.com/pogobot/pogobot/internal/plugin/hostfunc"
)

// Compile-time interface check.
var _ plugins.Host = (*Host)(nil)

type registration struct {
	event   string
	handler *event.Handler
}

// luaPlugin is a loaded plugin with its own state.
type luaPlugin struct {
	manifest      *plugins.Manifest
	L             *lua.LState
	registrations []registration
}

// Host runs Lua plugins. Each plugin gets one sandboxed state that lives
// until it is unloaded; its listeners are registered on the bus through
// pogobot.on(event, fn [, priority]).
type Host struct {
	factory *StateFactory
	funcs   *hostfunc.Functions
	bus     *event.Bus
	logger  *slog.Logger
	plugins map[string]*luaPlugin
	mu      sync.Mutex
	closed  bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = l
	}
}

// WithStateFactory replaces the sandbox factory.
func WithStateFactory(f *StateFactory) HostOption {
	return func(h *Host) {
		h.factory = f
	}
}

// NewHost creates a Lua host that registers listeners on bus.
// Panics if bus or funcs is nil.
func NewHost(bus *event.Bus, funcs *hostfunc.Functions, opts ...HostOption) *Host {
	if bus == nil {
		panic("lua.NewHost: bus cannot be nil")
	}
	if funcs == nil {
		panic("lua.NewHost: host functions cannot be nil")
	}
	h := &Host{
		factory: NewStateFactory(),
		funcs:   funcs,
		bus:     bus,
		logger:  slog.Default(),
		plugins: make(map[string]*luaPlugin),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Load grants the manifest capabilities, runs the entry file and keeps the
// listeners it registers. A failed load leaves nothing registered.
func (h *Host) Load(ctx context.Context, manifest *plugins.Manifest, dir string) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	errb := oops.In("lua").With("plugin", manifest.Name).With("operation", "load")
	if h.closed {
		return errb.New("host is closed")
	}
	if _, ok := h.plugins[manifest.Name]; ok {
		return errb.New("plugin already loaded")
	}
	if manifest.LuaPlugin == nil {
		return errb.New("manifest has no lua-plugin section")
	}

	entryPath := filepath.Join(dir, manifest.LuaPlugin.Entry)
	code, err := os.ReadFile(filepath.Clean(entryPath))
	if err != nil {
		return errb.With("path", entryPath).Hint("failed to read entry file").Wrap(err)
	}

	enforcer := h.funcs.Enforcer()
	if err := enforcer.SetGrants(manifest.Name, manifest.Capabilities); err != nil {
		return errb.Wrap(err)
	}

	L, err := h.factory.NewState()
	if err != nil {
		enforcer.RemoveGrants(manifest.Name)
		return errb.Hint("failed to create state").Wrap(err)
	}
	p := &luaPlugin{manifest: manifest, L: L}
	defer func() {
		if err != nil {
			h.release(p)
		}
	}()

	mod := h.funcs.Register(L, manifest.Name)
	L.SetField(mod, "on", L.NewFunction(h.onFn(p)))

	L.SetContext(ctx)
	defer L.RemoveContext()
	if err := L.DoString(string(code)); err != nil {
		return errb.With("entry", manifest.LuaPlugin.Entry).Hint("entry file failed to run").Wrap(err)
	}

	h.plugins[manifest.Name] = p
	h.logger.InfoContext(ctx, "lua plugin loaded",
		"plugin", manifest.Name,
		"version", manifest.Version,
		"listeners", len(p.registrations))
	return nil
}

// onFn implements pogobot.on(event, fn [, priority]).
func (h *Host) onFn(p *luaPlugin) lua.LGFunction {
	return func(L *lua.LState) int {
		eventName := L.CheckString(1)
		fn := L.CheckFunction(2)
		priority := L.OptInt(3, 0)

		if err := h.funcs.Enforcer().Require(p.manifest.Name, capability.Listen(eventName)); err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}

		handler := newListener(p.manifest.Name, eventName, L, fn, h.funcs).handler()
		if err := h.bus.Register(eventName, handler, priority); err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		p.registrations = append(p.registrations, registration{event: eventName, handler: handler})
		return 0
	}
}

// Unload removes the plugin's listeners, closes its state and revokes its grants.
func (h *Host) Unload(ctx context.Context, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.plugins[name]
	if !ok {
		return oops.In("lua").With("plugin", name).With("operation", "unload").New("plugin not loaded")
	}
	delete(h.plugins, name)
	h.release(p)
	h.logger.InfoContext(ctx, "lua plugin unloaded", "plugin", name)
	return nil
}

func (h *Host) release(p *luaPlugin) {
	for _, r := range p.registrations {
		h.bus.Unregister(r.event, r.handler)
	}
	p.registrations = nil
	p.L.Close()
	h.funcs.Enforcer().RemoveGrants(p.manifest.Name)
}

// Plugins returns the names of loaded plugins in sorted order.
func (h *Host) Plugins() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.plugins))
	for name := range h.plugins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close unloads every plugin. Load fails afterwards.
func (h *Host) Close(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for name, p := range h.plugins {
		h.release(p)
		delete(h.plugins, name)
	}
	h.closed = true
	return nil
}
