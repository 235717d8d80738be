// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

//nolint:gocritic // captLocal: L is the idiomatic name for lua.LState
package hostfunc

import (
	"context"
	"errors"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/plugin/capability"
	"github.com/pogobot/pogobot/internal/state"
)

// Session is the bot as seen by Lua listeners.
type Session interface {
	Client() *api.Client
	Position() model.Position
	Fire(ctx context.Context, name string, p *event.Payload) (*event.Payload, bool, error)
}

// SessionTable builds the bot table handed to a Lua listener:
//
//	bot.fire(name, fields)   -> fields, ok
//	bot.call(method, params) -> true | nil, err
//	bot.state(key)           -> value
//	bot.position()           -> {latitude, longitude, altitude}
//
// Each function checks the plugin's capabilities before acting.
func (f *Functions) SessionTable(L *lua.LState, pluginName string, sess Session) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "fire", L.NewFunction(f.fireFn(pluginName, sess)))
	L.SetField(t, "call", L.NewFunction(f.callFn(pluginName, sess)))
	L.SetField(t, "state", L.NewFunction(f.stateFn(pluginName, sess)))
	L.SetField(t, "position", L.NewFunction(positionFn(sess)))
	return t
}

func (f *Functions) fireFn(pluginName string, sess Session) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		fields := L.OptTable(2, nil)
		if !f.require(L, pluginName, capability.Fire(name)) {
			return 0
		}

		p := &event.Payload{}
		if fields != nil {
			if err := p.Merge(TableToMap(fields)); err != nil {
				L.ArgError(2, err.Error())
				return 0
			}
		}
		out, ok, err := sess.Fire(luaContext(L), name, p)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		if !ok {
			L.Push(lua.LNil)
			L.Push(lua.LFalse)
			return 2
		}
		result, err := payloadTable(L, out)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(result)
		L.Push(lua.LTrue)
		return 2
	}
}

func (f *Functions) callFn(pluginName string, sess Session) lua.LGFunction {
	return func(L *lua.LState) int {
		method := L.CheckString(1)
		params := L.OptTable(2, nil)
		if !f.require(L, pluginName, capability.Call(method)) {
			return 0
		}

		var args map[string]any
		if params != nil {
			args = TableToMap(params)
		}
		_, err := sess.Client().Request().Add(state.Method(strings.ToUpper(method)), args).Call(luaContext(L))
		if errors.Is(err, api.ErrNoResponse) {
			return pushError(L, err.Error())
		}
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(lua.LTrue)
		return 1
	}
}

func (f *Functions) stateFn(pluginName string, sess Session) lua.LGFunction {
	return func(L *lua.LState) int {
		key := state.Key(L.CheckString(1))
		if !key.Valid() {
			L.ArgError(1, "unknown state key "+string(key))
			return 0
		}
		if !f.require(L, pluginName, capability.ReadState(string(key))) {
			return 0
		}

		value, err := ToLua(L, sess.Client().Store().Snapshot(key)[key])
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(value)
		return 1
	}
}

func positionFn(sess Session) lua.LGFunction {
	return func(L *lua.LState) int {
		pos := sess.Position()
		t := L.NewTable()
		L.SetField(t, "latitude", lua.LNumber(pos.Latitude))
		L.SetField(t, "longitude", lua.LNumber(pos.Longitude))
		L.SetField(t, "altitude", lua.LNumber(pos.Altitude))
		L.Push(t)
		return 1
	}
}

func payloadTable(L *lua.LState, p *event.Payload) (lua.LValue, error) {
	fields, err := p.Fields()
	if err != nil {
		return lua.LNil, err
	}
	return ToLua(L, fields)
}

// pushError pushes nil followed by an error string and returns 2.
func pushError(L *lua.LState, msg string) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(msg))
	return 2
}
