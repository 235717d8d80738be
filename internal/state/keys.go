// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package state caches server responses per state key and decides which
// queued calls still need to reach the server.
package state

// Key names an independently cached slice of game state.
type Key string

// State keys.
const (
	KeyPlayer         Key = "player"
	KeyInventory      Key = "inventory"
	KeyPokemon        Key = "pokemon"
	KeyPokedex        Key = "pokedex"
	KeyCandy          Key = "candy"
	KeyEggs           Key = "eggs"
	KeyEggIncubators  Key = "egg_incubators"
	KeyWorldMap       Key = "worldmap"
	KeyEncounter      Key = "encounter"
	KeyFort           Key = "fort"
	KeyFortSearch     Key = "fort_search"
	KeyEvolution      Key = "evolution"
	KeyLevelUpRewards Key = "level_up_rewards"
)

var allKeys = []Key{
	KeyPlayer,
	KeyInventory,
	KeyPokemon,
	KeyPokedex,
	KeyCandy,
	KeyEggs,
	KeyEggIncubators,
	KeyWorldMap,
	KeyEncounter,
	KeyFort,
	KeyFortSearch,
	KeyEvolution,
	KeyLevelUpRewards,
}

// AllKeys returns every known state key.
func AllKeys() []Key {
	out := make([]Key, len(allKeys))
	copy(out, allKeys)
	return out
}

// Valid reports whether k is a known state key.
func (k Key) Valid() bool {
	for _, known := range allKeys {
		if k == known {
			return true
		}
	}
	return false
}
