// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package lua hosts Lua plugins whose functions listen on the event bus.
package lua

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// Limits of a plugin state.
const (
	DefaultCallStackSize = 120
	DefaultRegistrySize  = 1024 * 20
)

type library struct {
	name string
	open lua.LGFunction
}

// sandboxLibraries are the libraries a plugin may use. os, io, debug,
// package and channel are never opened.
func sandboxLibraries() []library {
	return []library{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// blockedGlobals are base functions that reach the filesystem or load code.
var blockedGlobals = []string{"dofile", "loadfile", "loadstring", "load", "require", "module"}

// StateFactory creates sandboxed Lua states.
type StateFactory struct {
	libraries     []library
	callStackSize int
	registrySize  int
}

// NewStateFactory creates a factory with the sandbox libraries and default limits.
func NewStateFactory() *StateFactory {
	return &StateFactory{
		libraries:     sandboxLibraries(),
		callStackSize: DefaultCallStackSize,
		registrySize:  DefaultRegistrySize,
	}
}

// NewState creates a fresh sandboxed state. The caller closes it.
func (f *StateFactory) NewState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: f.callStackSize,
		RegistrySize:  f.registrySize,
	})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.In("lua").With("library", lib.name).Wrapf(err, "open library %s", lib.name)
		}
	}

	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L, nil
}
