// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package hostfunc exposes bot services to Lua plugins: the global pogobot
// module and the bot table passed to listeners.
//
//nolint:gocritic // captLocal: L is the idiomatic name for lua.LState
package hostfunc

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/plugin/capability"
)

// ModuleName is the global the host functions are installed under.
const ModuleName = "pogobot"

// Functions provides host functions to Lua plugins.
type Functions struct {
	enforcer *capability.Enforcer
	data     *gamedata.Data
	logger   *slog.Logger
}

// Option configures Functions.
type Option func(*Functions)

// WithGameData enables item and pokemon name lookups.
func WithGameData(d *gamedata.Data) Option {
	return func(f *Functions) {
		f.data = d
	}
}

// WithLogger sets the logger plugin log lines are written to.
func WithLogger(l *slog.Logger) Option {
	return func(f *Functions) {
		f.logger = l
	}
}

// New creates host functions. Panics if enforcer is nil.
func New(enforcer *capability.Enforcer, opts ...Option) *Functions {
	if enforcer == nil {
		panic("hostfunc.New: enforcer cannot be nil")
	}
	f := &Functions{enforcer: enforcer, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Enforcer returns the capability enforcer guarding the functions.
func (f *Functions) Enforcer() *capability.Enforcer {
	return f.enforcer
}

// Register installs the pogobot module into L and returns it so the host
// can add runtime functions such as on().
func (f *Functions) Register(L *lua.LState, pluginName string) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "log", L.NewFunction(f.logFn(pluginName)))
	L.SetField(mod, "new_request_id", L.NewFunction(newRequestID))
	L.SetField(mod, "item_name", L.NewFunction(f.itemNameFn()))
	L.SetField(mod, "pokemon_name", L.NewFunction(f.pokemonNameFn()))
	L.SetGlobal(ModuleName, mod)
	return mod
}

// require raises a Lua error when the plugin lacks the capability.
func (f *Functions) require(L *lua.LState, pluginName, capName string) bool {
	if err := f.enforcer.Require(pluginName, capName); err != nil {
		L.RaiseError("%s", err.Error())
		return false
	}
	return true
}

func (f *Functions) logFn(pluginName string) lua.LGFunction {
	return func(L *lua.LState) int {
		level := L.CheckString(1)
		message := L.CheckString(2)

		logger := f.logger.With("plugin", pluginName)
		ctx := luaContext(L)
		switch level {
		case "debug":
			logger.DebugContext(ctx, message)
		case "warn":
			logger.WarnContext(ctx, message)
		case "error":
			logger.ErrorContext(ctx, message)
		default:
			logger.InfoContext(ctx, message)
		}
		return 0
	}
}

func newRequestID(L *lua.LState) int {
	L.Push(lua.LString(ulid.Make().String()))
	return 1
}

func (f *Functions) itemNameFn() lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckInt(1)
		name := gamedata.Unknown
		if f.data != nil {
			name = f.data.ItemName(id)
		}
		L.Push(lua.LString(name))
		return 1
	}
}

func (f *Functions) pokemonNameFn() lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckInt(1)
		name := gamedata.Unknown
		if f.data != nil {
			name = f.data.PokemonName(id)
		}
		L.Push(lua.LString(name))
		return 1
	}
}

// luaContext returns the context of the running invocation.
func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
