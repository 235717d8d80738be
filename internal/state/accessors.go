// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package state

import (
	"github.com/pogobot/pogobot/internal/model"
)

func typed[T any](s *Store, key Key) (T, bool) {
	v, ok := s.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Player returns the cached player profile.
func (s *Store) Player() (*model.Player, bool) {
	return typed[*model.Player](s, KeyPlayer)
}

// Inventory returns the cached inventory aggregate.
func (s *Store) Inventory() (*model.Inventory, bool) {
	return typed[*model.Inventory](s, KeyInventory)
}

// Pokemon returns the cached list of owned pokemon.
func (s *Store) Pokemon() ([]*model.Pokemon, bool) {
	return typed[[]*model.Pokemon](s, KeyPokemon)
}

// Pokedex returns the cached pokedex entries keyed by pokemon id.
func (s *Store) Pokedex() (map[int]model.PokedexEntry, bool) {
	return typed[map[int]model.PokedexEntry](s, KeyPokedex)
}

// Candy returns the cached candy counts keyed by family id.
func (s *Store) Candy() (map[int]int, bool) {
	return typed[map[int]int](s, KeyCandy)
}

// Eggs returns the cached eggs.
func (s *Store) Eggs() ([]*model.Egg, bool) {
	return typed[[]*model.Egg](s, KeyEggs)
}

// Incubators returns the cached egg incubators.
func (s *Store) Incubators() ([]*model.Incubator, bool) {
	return typed[[]*model.Incubator](s, KeyEggIncubators)
}

// WorldMap returns the cached map cells.
func (s *Store) WorldMap() (*model.WorldMap, bool) {
	return typed[*model.WorldMap](s, KeyWorldMap)
}

// Encounter returns the cached encounter.
func (s *Store) Encounter() (*model.Encounter, bool) {
	return typed[*model.Encounter](s, KeyEncounter)
}

// Fort returns the cached fort details.
func (s *Store) Fort() (model.FortDetail, bool) {
	return typed[model.FortDetail](s, KeyFort)
}

// FortSearch returns the cached result of the last pokestop search.
func (s *Store) FortSearch() (*model.FortSearchResult, bool) {
	return typed[*model.FortSearchResult](s, KeyFortSearch)
}

// Evolution returns the cached result of the last evolution.
func (s *Store) Evolution() (*model.EvolutionResult, bool) {
	return typed[*model.EvolutionResult](s, KeyEvolution)
}

// LevelUpRewards returns the cached level up rewards.
func (s *Store) LevelUpRewards() (*model.LevelUpRewards, bool) {
	return typed[*model.LevelUpRewards](s, KeyLevelUpRewards)
}
