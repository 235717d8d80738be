// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

import (
	"maps"
	"slices"
	"sort"
)

// PokedexEntry records how often a species was seen and caught.
type PokedexEntry struct {
	PokemonID        int `json:"pokemon_id"`
	TimesEncountered int `json:"times_encountered"`
	TimesCaptured    int `json:"times_captured"`
}

// Inventory is the aggregate built from GET_INVENTORY deltas.
type Inventory struct {
	LastUpdatedMs int64                `json:"last_updated_ms"`
	Items         map[int]int          `json:"items"`
	Candy         map[int]int          `json:"candy"`
	Pokedex       map[int]PokedexEntry `json:"pokedex"`
	Pokemon       []*Pokemon           `json:"pokemon"`
	Eggs          []*Egg               `json:"eggs"`
	Incubators    []*Incubator         `json:"egg_incubators"`
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Items:   make(map[int]int),
		Candy:   make(map[int]int),
		Pokedex: make(map[int]PokedexEntry),
	}
}

// Clone returns a copy whose maps and slices can be mutated independently.
// Pokemon, egg and incubator records are shared; they are never mutated in place.
func (inv *Inventory) Clone() *Inventory {
	if inv == nil {
		return NewInventory()
	}
	c := &Inventory{
		LastUpdatedMs: inv.LastUpdatedMs,
		Items:         maps.Clone(inv.Items),
		Candy:         maps.Clone(inv.Candy),
		Pokedex:       maps.Clone(inv.Pokedex),
		Pokemon:       slices.Clone(inv.Pokemon),
		Eggs:          slices.Clone(inv.Eggs),
		Incubators:    slices.Clone(inv.Incubators),
	}
	if c.Items == nil {
		c.Items = make(map[int]int)
	}
	if c.Candy == nil {
		c.Candy = make(map[int]int)
	}
	if c.Pokedex == nil {
		c.Pokedex = make(map[int]PokedexEntry)
	}
	return c
}

// ItemCount returns the total number of items held.
func (inv *Inventory) ItemCount() int {
	total := 0
	for _, n := range inv.Items {
		total += n
	}
	return total
}

// ItemIDs returns the held item ids in ascending order.
func (inv *Inventory) ItemIDs() []int {
	ids := slices.Collect(maps.Keys(inv.Items))
	sort.Ints(ids)
	return ids
}

// PokemonByID returns the owned pokemon with the given unique id.
func (inv *Inventory) PokemonByID(id uint64) (*Pokemon, bool) {
	for _, p := range inv.Pokemon {
		if p.UniqueID == id {
			return p, true
		}
	}
	return nil, false
}

// DeltaResult reports the parts of an inventory delta that concern other records.
type DeltaResult struct {
	// PlayerStats is the last player_stats entry, nil when absent.
	PlayerStats Raw
	// UnknownDeletions lists deletion sub-types that were not understood.
	UnknownDeletions []string
}

// ApplyDelta applies an inventory_delta from a GET_INVENTORY response.
// Candy and item entries with a zero count are removed, other entries are
// upserted.
func (inv *Inventory) ApplyDelta(r Raw) DeltaResult {
	var result DeltaResult
	delta := r.Map("inventory_delta")
	inv.LastUpdatedMs = delta.Int64("new_timestamp_ms", inv.LastUpdatedMs)

	for _, entry := range delta.List("inventory_items") {
		if entry.Has("deleted_item") {
			result.UnknownDeletions = append(result.UnknownDeletions, inv.applyDeletion(entry.Map("deleted_item"))...)
			continue
		}

		data := entry.Map("inventory_item_data")
		switch {
		case data.Has("deleted_item"):
			result.UnknownDeletions = append(result.UnknownDeletions, inv.applyDeletion(data.Map("deleted_item"))...)
		case data.Has("candy"):
			candy := data.Map("candy")
			family := candy.Int("family_id", 0)
			if family == 0 {
				continue
			}
			setCount(inv.Candy, family, candy.Int("candy", 0))
		case data.Has("item"):
			item := data.Map("item")
			id := item.Int("item_id", 0)
			if id == 0 {
				continue
			}
			setCount(inv.Items, id, item.Int("count", 0))
		case data.Has("pokedex_entry"):
			entry := data.Map("pokedex_entry")
			id := entry.Int("pokemon_id", 0)
			inv.Pokedex[id] = PokedexEntry{
				PokemonID:        id,
				TimesEncountered: entry.Int("times_encountered", 0),
				TimesCaptured:    entry.Int("times_captured", 0),
			}
		case data.Has("egg_incubators"):
			inv.Incubators = ParseIncubators(data.Map("egg_incubators"))
		case data.Has("pokemon_data"):
			pd := data.Map("pokemon_data")
			if pd.Bool("is_egg", false) {
				inv.upsertEgg(NewEgg(pd))
			} else {
				inv.upsertPokemon(NewPokemon(pd))
			}
		case data.Has("player_stats"):
			result.PlayerStats = data.Map("player_stats")
		}
	}
	return result
}

func (inv *Inventory) applyDeletion(deleted Raw) []string {
	var unknown []string
	for kind := range deleted {
		switch kind {
		case "pokemon_id":
			id := deleted.Uint64("pokemon_id", 0)
			inv.Pokemon = slices.DeleteFunc(inv.Pokemon, func(p *Pokemon) bool { return p.UniqueID == id })
			inv.Eggs = slices.DeleteFunc(inv.Eggs, func(e *Egg) bool { return e.UniqueID == id })
		default:
			unknown = append(unknown, kind)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func (inv *Inventory) upsertPokemon(p *Pokemon) {
	for i, existing := range inv.Pokemon {
		if existing.UniqueID == p.UniqueID {
			inv.Pokemon[i] = p
			return
		}
	}
	inv.Pokemon = append(inv.Pokemon, p)
}

func (inv *Inventory) upsertEgg(e *Egg) {
	for i, existing := range inv.Eggs {
		if existing.UniqueID == e.UniqueID {
			inv.Eggs[i] = e
			return
		}
	}
	inv.Eggs = append(inv.Eggs, e)
}

func setCount(m map[int]int, id, count int) {
	if count == 0 {
		delete(m, id)
		return
	}
	m[id] = count
}
