// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

//nolint:gocritic // captLocal: L is the idiomatic name for lua.LState
package hostfunc

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// ToLua converts a Go value to Lua through its JSON form: structs and maps
// become tables keyed by their JSON names, slices become arrays.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	if v == nil {
		return lua.LNil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return lua.LNil, oops.In("hostfunc").Wrapf(err, "encode %T for lua", v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var plain any
	if err := dec.Decode(&plain); err != nil {
		return lua.LNil, oops.In("hostfunc").Wrapf(err, "decode %T for lua", v)
	}
	return fromPlain(L, plain), nil
}

func fromPlain(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return lua.LString(val.String())
		}
		return lua.LNumber(f)
	case float64:
		return lua.LNumber(val)
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(fromPlain(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for _, k := range slices.Sorted(maps.Keys(val)) {
			t.RawSetString(k, fromPlain(L, val[k]))
		}
		return t
	default:
		return lua.LNil
	}
}

// ToGo converts a Lua value to plain Go values. Tables with array
// elements become []any, other tables map[string]any.
func ToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LTable:
		if val.MaxN() > 0 {
			return TableToSlice(val)
		}
		return TableToMap(val)
	case *lua.LNilType:
		return nil
	default:
		return v.String()
	}
}

// TableToMap converts a Lua table to map[string]any.
func TableToMap(tbl *lua.LTable) map[string]any {
	out := make(map[string]any)
	tbl.ForEach(func(k, v lua.LValue) {
		out[k.String()] = ToGo(v)
	})
	return out
}

// TableToSlice converts the array part of a Lua table to []any.
func TableToSlice(tbl *lua.LTable) []any {
	n := tbl.MaxN()
	out := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, ToGo(tbl.RawGetInt(i)))
	}
	return out
}
