// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

//nolint:gocritic // captLocal: L is the idiomatic name for lua.LState
package lua

import (
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/plugin/hostfunc"
)

// Parameter names with a fixed binding. Any other name is looked up in the
// payload.
const (
	paramEvent = "event"
	paramBot   = "bot"
)

// listener adapts a Lua function to an event handler. The function receives
// the payload fields named by its parameters:
//
//	pogobot.on("pokestop_arrived", function(bot, pokestop) ... end)
//
// Returning a table merges it into the payload, returning false cancels the
// pipeline and any other value leaves the payload as is.
type listener struct {
	plugin string
	event  string
	L      *lua.LState
	fn     *lua.LFunction
	params []string
	funcs  *hostfunc.Functions
}

func newListener(pluginName, eventName string, L *lua.LState, fn *lua.LFunction, funcs *hostfunc.Functions) *listener {
	return &listener{
		plugin: pluginName,
		event:  eventName,
		L:      L,
		fn:     fn,
		params: parameterNames(fn),
		funcs:  funcs,
	}
}

// parameterNames returns the declared parameter names of a Lua function.
// Go functions have no declared parameters.
func parameterNames(fn *lua.LFunction) []string {
	if fn.IsG || fn.Proto == nil {
		return nil
	}
	n := int(fn.Proto.NumParameters)
	names := make([]string, 0, n)
	for _, local := range fn.Proto.DbgLocals {
		if len(names) == n {
			break
		}
		names = append(names, local.Name)
	}
	return names
}

func (l *listener) handler() *event.Handler {
	return event.NewHandler(l.plugin+":"+l.event, l.handle)
}

func (l *listener) handle(ctx context.Context, ev *event.Event) error {
	L := l.L
	prev := L.Context()
	L.SetContext(ctx)
	defer func() {
		if prev != nil {
			L.SetContext(prev)
		} else {
			L.RemoveContext()
		}
	}()

	args, err := l.arguments(ev)
	if err != nil {
		return err
	}

	if err := L.CallByParam(lua.P{Fn: l.fn, NRet: 1, Protect: true}, args...); err != nil {
		return oops.In("lua").
			With("plugin", l.plugin).
			With("event", ev.Name).
			Wrapf(err, "lua listener")
	}
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case *lua.LTable:
		if err := ev.Payload.Merge(hostfunc.TableToMap(v)); err != nil {
			return oops.In("lua").
				With("plugin", l.plugin).
				With("event", ev.Name).
				Wrapf(err, "merge listener result")
		}
	case lua.LBool:
		if !bool(v) {
			return event.Cancel
		}
	}
	return nil
}

// arguments binds each declared parameter. Missing payload fields are nil.
func (l *listener) arguments(ev *event.Event) ([]lua.LValue, error) {
	var fields map[string]any
	args := make([]lua.LValue, len(l.params))
	for i, name := range l.params {
		switch name {
		case paramEvent:
			args[i] = lua.LString(ev.Name)
		case paramBot:
			args[i] = lua.LNil
			if sess, ok := ev.Context.(hostfunc.Session); ok {
				args[i] = l.funcs.SessionTable(l.L, l.plugin, sess)
			}
		default:
			if fields == nil {
				var err error
				if fields, err = ev.Payload.Fields(); err != nil {
					return nil, err
				}
			}
			v, err := hostfunc.ToLua(l.L, fields[name])
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
	}
	return args, nil
}
