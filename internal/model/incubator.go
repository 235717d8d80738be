// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

// ItemIncubatorUnlimited is the item id of the infinite-use incubator.
const ItemIncubatorUnlimited = 901

// Incubator is an egg incubator from the inventory.
type Incubator struct {
	UniqueID       string  `json:"unique_id"`
	ItemID         int     `json:"item_id"`
	IncubatorType  int     `json:"incubator_type"`
	UsesRemaining  int     `json:"uses_remaining"`
	PokemonID      uint64  `json:"pokemon_id"`
	StartKmWalked  float64 `json:"start_km_walked"`
	TargetKmWalked float64 `json:"target_km_walked"`
}

// NewIncubator parses an egg_incubator payload.
func NewIncubator(r Raw) *Incubator {
	return &Incubator{
		UniqueID:       r.String("id", ""),
		ItemID:         r.Int("item_id", 0),
		IncubatorType:  r.Int("incubator_type", 0),
		UsesRemaining:  r.Int("uses_remaining", 0),
		PokemonID:      r.Uint64("pokemon_id", 0),
		StartKmWalked:  r.Float("start_km_walked", 0),
		TargetKmWalked: r.Float("target_km_walked", 0),
	}
}

// InUse reports whether an egg is currently incubating.
func (i *Incubator) InUse() bool {
	return i.PokemonID != 0
}

// Clone returns a copy.
func (i *Incubator) Clone() *Incubator {
	c := *i
	return &c
}

// ParseIncubators reads the egg_incubator list of an egg_incubators payload.
func ParseIncubators(r Raw) []*Incubator {
	entries := r.List("egg_incubator")
	out := make([]*Incubator, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewIncubator(e))
	}
	return out
}
