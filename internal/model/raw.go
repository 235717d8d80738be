// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package model defines the typed domain records built from raw server responses.
package model

import (
	"github.com/spf13/cast"
)

// Raw is a loosely typed response payload as decoded from the wire.
// Accessors apply the supplied default when a field is missing or cannot be
// coerced to the requested type.
type Raw map[string]any

// Has reports whether the key is present with a non-nil value.
func (r Raw) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Int returns the field as an int.
func (r Raw) Int(key string, def int) int {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// Int64 returns the field as an int64.
func (r Raw) Int64(key string, def int64) int64 {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return def
	}
	return n
}

// Uint64 returns the field as a uint64. Used for server-assigned ids.
func (r Raw) Uint64(key string, def uint64) uint64 {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	n, err := cast.ToUint64E(v)
	if err != nil {
		return def
	}
	return n
}

// Float returns the field as a float64.
func (r Raw) Float(key string, def float64) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

// String returns the field as a string.
func (r Raw) String(key, def string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Bool returns the field as a bool.
func (r Raw) Bool(key string, def bool) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Map returns a nested object. A missing or non-object field yields an empty Raw.
func (r Raw) Map(key string) Raw {
	return asRaw(r[key])
}

// List returns a nested list of objects. A single object is returned as a
// one-element list; non-object elements are skipped.
func (r Raw) List(key string) []Raw {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	if m, ok := toMap(v); ok {
		return []Raw{m}
	}
	if list, ok := v.([]Raw); ok {
		return list
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil
	}
	out := make([]Raw, 0, len(items))
	for _, item := range items {
		if m, ok := toMap(item); ok {
			out = append(out, m)
		}
	}
	return out
}

// Ints returns a list of integers, skipping entries that cannot be coerced.
func (r Raw) Ints(key string) []int {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	if list, ok := v.([]int); ok {
		return append([]int(nil), list...)
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		if n, err := cast.ToIntE(v); err == nil {
			return []int{n}
		}
		return nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		if n, err := cast.ToIntE(item); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// Floats returns a list of floats, skipping entries that cannot be coerced.
func (r Raw) Floats(key string) []float64 {
	items, err := cast.ToSliceE(r[key])
	if err != nil {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		if f, err := cast.ToFloat64E(item); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func asRaw(v any) Raw {
	if m, ok := toMap(v); ok {
		return m
	}
	return Raw{}
}

func toMap(v any) (Raw, bool) {
	switch m := v.(type) {
	case Raw:
		return m, true
	case map[string]any:
		return Raw(m), true
	case nil:
		return nil, false
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, false
	}
	return Raw(m), true
}
