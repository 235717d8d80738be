// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

import (
	"encoding/json"
	"slices"
)

// EvolutionSuccess is the result code of a successful evolution.
const EvolutionSuccess = 1

// EvolutionResult is the outcome of EVOLVE_POKEMON. Every accessor returns the
// zero value unless the evolution succeeded.
type EvolutionResult struct {
	result     int
	pokemon    *Pokemon
	experience int
	candy      int
}

// NewEvolutionResult parses an EVOLVE_POKEMON response.
func NewEvolutionResult(r Raw) *EvolutionResult {
	res := &EvolutionResult{result: r.Int("result", 0)}
	if !res.WasSuccessful() {
		return res
	}
	if r.Has("evolved_pokemon_data") {
		res.pokemon = NewPokemon(r.Map("evolved_pokemon_data"))
	}
	res.experience = r.Int("experience_awarded", 0)
	res.candy = r.Int("candy_awarded", 0)
	return res
}

// Result returns the raw result code.
func (e *EvolutionResult) Result() int { return e.result }

// WasSuccessful reports whether the result code is 1.
func (e *EvolutionResult) WasSuccessful() bool { return e.result == EvolutionSuccess }

// Pokemon returns the evolved pokemon, or nil.
func (e *EvolutionResult) Pokemon() *Pokemon {
	if !e.WasSuccessful() {
		return nil
	}
	return e.pokemon
}

// Experience returns the experience awarded, or 0.
func (e *EvolutionResult) Experience() int {
	if !e.WasSuccessful() {
		return 0
	}
	return e.experience
}

// Candy returns the candy awarded, or 0.
func (e *EvolutionResult) Candy() int {
	if !e.WasSuccessful() {
		return 0
	}
	return e.candy
}

// MarshalJSON exposes the gated accessors.
func (e *EvolutionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Result     int      `json:"result"`
		Success    bool     `json:"success"`
		Pokemon    *Pokemon `json:"pokemon,omitempty"`
		Experience int      `json:"experience"`
		Candy      int      `json:"candy"`
	}{e.result, e.WasSuccessful(), e.Pokemon(), e.Experience(), e.Candy()})
}

// Fort search result codes.
const (
	FortSearchNoResult      = 0
	FortSearchSuccess       = 1
	FortSearchOutOfRange    = 2
	FortSearchInCooldown    = 3
	FortSearchInventoryFull = 4
)

// ItemAward is a stack of items granted by the server.
type ItemAward struct {
	ItemID int `json:"item_id"`
	Count  int `json:"item_count"`
}

func parseAwards(list []Raw) []ItemAward {
	out := make([]ItemAward, 0, len(list))
	for _, a := range list {
		out = append(out, ItemAward{
			ItemID: a.Int("item_id", 0),
			Count:  a.Int("item_count", 1),
		})
	}
	return out
}

// AwardTotals sums awards per item id.
func AwardTotals(awards []ItemAward) map[int]int {
	totals := make(map[int]int, len(awards))
	for _, a := range awards {
		totals[a.ItemID] += a.Count
	}
	return totals
}

// FortSearchResult is the outcome of FORT_SEARCH.
type FortSearchResult struct {
	Result             int         `json:"result"`
	ExperienceAwarded  int         `json:"experience_awarded"`
	ItemsAwarded       []ItemAward `json:"items_awarded"`
	CooldownCompleteMs int64       `json:"cooldown_complete_timestamp_ms"`
	ChainHackSequence  int         `json:"chain_hack_sequence_number"`
	GemsAwarded        int         `json:"gems_awarded"`
	Egg                *Egg        `json:"pokemon_data_egg,omitempty"`
}

// NewFortSearchResult parses a FORT_SEARCH response.
func NewFortSearchResult(r Raw) *FortSearchResult {
	res := &FortSearchResult{
		Result:             r.Int("result", FortSearchNoResult),
		ExperienceAwarded:  r.Int("experience_awarded", 0),
		ItemsAwarded:       parseAwards(r.List("items_awarded")),
		CooldownCompleteMs: r.Int64("cooldown_complete_timestamp_ms", 0),
		ChainHackSequence:  r.Int("chain_hack_sequence_number", 0),
		GemsAwarded:        r.Int("gems_awarded", 0),
	}
	if r.Has("pokemon_data_egg") {
		res.Egg = NewEgg(r.Map("pokemon_data_egg"))
	}
	return res
}

// Succeeded reports whether the pokestop was spun.
func (f *FortSearchResult) Succeeded() bool {
	return f.Result == FortSearchSuccess
}

// LevelUpRewards is the outcome of LEVEL_UP_REWARDS.
type LevelUpRewards struct {
	Result        int         `json:"result"`
	ItemsAwarded  []ItemAward `json:"items_awarded"`
	ItemsUnlocked []int       `json:"items_unlocked"`
}

// NewLevelUpRewards parses a LEVEL_UP_REWARDS response.
func NewLevelUpRewards(r Raw) *LevelUpRewards {
	return &LevelUpRewards{
		Result:        r.Int("result", 0),
		ItemsAwarded:  parseAwards(r.List("items_awarded")),
		ItemsUnlocked: slices.Clip(r.Ints("items_unlocked")),
	}
}
