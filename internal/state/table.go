// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package state

import (
	"slices"
	"sort"
)

// Method is a remote API method name.
type Method string

// Remote methods known to the default table.
const (
	MethodGetPlayer            Method = "GET_PLAYER"
	MethodGetInventory         Method = "GET_INVENTORY"
	MethodCheckAwardedBadges   Method = "CHECK_AWARDED_BADGES"
	MethodDownloadSettings     Method = "DOWNLOAD_SETTINGS"
	MethodGetHatchedEggs       Method = "GET_HATCHED_EGGS"
	MethodGetMapObjects        Method = "GET_MAP_OBJECTS"
	MethodEncounter            Method = "ENCOUNTER"
	MethodDiskEncounter        Method = "DISK_ENCOUNTER"
	MethodCatchPokemon         Method = "CATCH_POKEMON"
	MethodReleasePokemon       Method = "RELEASE_POKEMON"
	MethodPlayerUpdate         Method = "PLAYER_UPDATE"
	MethodFortDetails          Method = "FORT_DETAILS"
	MethodFortSearch           Method = "FORT_SEARCH"
	MethodEvolvePokemon        Method = "EVOLVE_POKEMON"
	MethodUseItemEggIncubator  Method = "USE_ITEM_EGG_INCUBATOR"
	MethodRecycleInventoryItem Method = "RECYCLE_INVENTORY_ITEM"
	MethodLevelUpRewards       Method = "LEVEL_UP_REWARDS"
)

// Call is one queued remote call.
type Call struct {
	Method Method
	Params map[string]any
}

// Descriptor lists the state keys a method's response writes and the keys
// its execution makes stale.
type Descriptor struct {
	Produces    []Key
	Invalidates []Key
}

// Table is the immutable call classification table.
type Table struct {
	methods map[Method]Descriptor
}

// NewTable validates and copies the descriptors.
func NewTable(descriptors map[Method]Descriptor) (*Table, error) {
	t := &Table{methods: make(map[Method]Descriptor, len(descriptors))}
	for method, d := range descriptors {
		if method == "" {
			return nil, ErrEmptyMethod()
		}
		for _, k := range append(slices.Clone(d.Produces), d.Invalidates...) {
			if !k.Valid() {
				return nil, ErrUnknownKey(method, k)
			}
		}
		t.methods[method] = Descriptor{
			Produces:    slices.Clone(d.Produces),
			Invalidates: slices.Clone(d.Invalidates),
		}
	}
	return t, nil
}

// DefaultTable returns the table covering every request builder method.
func DefaultTable() *Table {
	t, err := NewTable(map[Method]Descriptor{
		MethodGetPlayer: {Produces: []Key{KeyPlayer}},
		MethodGetInventory: {Produces: []Key{
			KeyPlayer, KeyInventory, KeyPokemon, KeyPokedex, KeyCandy, KeyEggs, KeyEggIncubators,
		}},
		MethodCheckAwardedBadges: {},
		MethodDownloadSettings:   {},
		MethodGetHatchedEggs:     {},
		MethodGetMapObjects: {
			Produces:    []Key{KeyWorldMap},
			Invalidates: []Key{KeyWorldMap},
		},
		MethodEncounter: {
			Produces:    []Key{KeyEncounter},
			Invalidates: []Key{KeyEncounter, KeyPlayer, KeyPokedex},
		},
		MethodDiskEncounter: {
			Produces:    []Key{KeyEncounter},
			Invalidates: []Key{KeyEncounter, KeyPlayer, KeyPokedex},
		},
		MethodCatchPokemon: {
			Produces:    []Key{KeyEncounter},
			Invalidates: []Key{KeyEncounter, KeyPlayer, KeyPokemon, KeyPokedex, KeyCandy, KeyInventory},
		},
		MethodReleasePokemon: {Invalidates: []Key{KeyPokemon, KeyCandy}},
		MethodPlayerUpdate:   {Invalidates: []Key{KeyPlayer, KeyInventory}},
		MethodFortDetails: {
			Produces:    []Key{KeyFort},
			Invalidates: []Key{KeyFort},
		},
		MethodFortSearch: {
			Produces:    []Key{KeyFortSearch},
			Invalidates: []Key{KeyPlayer, KeyInventory, KeyEggs, KeyFortSearch},
		},
		MethodEvolvePokemon: {
			Produces:    []Key{KeyEvolution},
			Invalidates: []Key{KeyEvolution, KeyPokemon, KeyCandy, KeyPlayer},
		},
		MethodUseItemEggIncubator: {
			Produces:    []Key{KeyEggIncubators},
			Invalidates: []Key{KeyEggIncubators, KeyEggs},
		},
		MethodRecycleInventoryItem: {Invalidates: []Key{KeyInventory}},
		MethodLevelUpRewards: {
			Produces:    []Key{KeyLevelUpRewards},
			Invalidates: []Key{KeyLevelUpRewards, KeyInventory},
		},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Descriptor returns the descriptor for method.
func (t *Table) Descriptor(method Method) (Descriptor, error) {
	d, ok := t.methods[method]
	if !ok {
		return Descriptor{}, ErrUnknownMethod(method)
	}
	return Descriptor{
		Produces:    slices.Clone(d.Produces),
		Invalidates: slices.Clone(d.Invalidates),
	}, nil
}

// Produces returns the keys written by the method's response.
func (t *Table) Produces(method Method) ([]Key, error) {
	d, err := t.Descriptor(method)
	return d.Produces, err
}

// Invalidates returns the keys made stale by executing the method.
func (t *Table) Invalidates(method Method) ([]Key, error) {
	d, err := t.Descriptor(method)
	return d.Invalidates, err
}

// Has reports whether the method is in the table.
func (t *Table) Has(method Method) bool {
	_, ok := t.methods[method]
	return ok
}

// Methods returns the known methods sorted by name.
func (t *Table) Methods() []Method {
	out := make([]Method, 0, len(t.methods))
	for m := range t.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
