// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

import (
	"maps"
	"strings"
	"time"
)

// Player defaults applied when the server omits a field.
const (
	DefaultUsername          = "Unknown"
	DefaultCurrencyName      = "unknown"
	DefaultMaxPokemonStorage = 250
	DefaultMaxItemStorage    = 350
	DefaultLevel             = 1
)

// Player is the trainer profile assembled from GET_PLAYER and the
// player_stats entry of GET_INVENTORY.
type Player struct {
	Username            string         `json:"username"`
	MaxPokemonStorage   int            `json:"max_pokemon_storage"`
	MaxItemStorage      int            `json:"max_item_storage"`
	CreationTimestampMs int64          `json:"creation_timestamp_ms"`
	Pokecoin            int            `json:"pokecoin"`
	Stardust            int            `json:"stardust"`
	Currencies          map[string]int `json:"currencies,omitempty"`

	KmWalked             float64 `json:"km_walked"`
	PokeballsThrown      int     `json:"pokeballs_thrown"`
	UniquePokedexEntries int     `json:"unique_pokedex_entries"`
	PokemonsCaptured     int     `json:"pokemons_captured"`
	PokemonsEncountered  int     `json:"pokemons_encountered"`
	PokeStopVisits       int     `json:"poke_stop_visits"`
	NextLevelXP          int64   `json:"next_level_xp"`
	PrevLevelXP          int64   `json:"prev_level_xp"`
	Experience           int64   `json:"experience"`
	Level                int     `json:"level"`
}

// NewPlayer returns a Player with every field at its default.
func NewPlayer() *Player {
	return &Player{
		Username:          DefaultUsername,
		MaxPokemonStorage: DefaultMaxPokemonStorage,
		MaxItemStorage:    DefaultMaxItemStorage,
		Level:             DefaultLevel,
	}
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	if p == nil {
		return NewPlayer()
	}
	c := *p
	c.Currencies = maps.Clone(p.Currencies)
	return &c
}

// ApplyProfile applies a GET_PLAYER response.
func (p *Player) ApplyProfile(r Raw) {
	data := r.Map("player_data")
	p.Username = data.String("username", DefaultUsername)
	p.MaxPokemonStorage = data.Int("max_pokemon_storage", DefaultMaxPokemonStorage)
	p.MaxItemStorage = data.Int("max_item_storage", DefaultMaxItemStorage)
	p.CreationTimestampMs = data.Int64("creation_timestamp_ms", 0)
	p.ApplyCurrencies(data.List("currencies"))
}

// ApplyCurrencies merges currency entries by lowercased name.
func (p *Player) ApplyCurrencies(entries []Raw) {
	for _, c := range entries {
		name := strings.ToLower(c.String("name", DefaultCurrencyName))
		amount := c.Int("amount", 0)
		switch name {
		case "pokecoin":
			p.Pokecoin = amount
		case "stardust":
			p.Stardust = amount
		default:
			if p.Currencies == nil {
				p.Currencies = make(map[string]int)
			}
			p.Currencies[name] = amount
		}
	}
}

// ApplyStats applies a player_stats inventory entry.
func (p *Player) ApplyStats(stats Raw) {
	p.KmWalked = stats.Float("km_walked", 0)
	p.PokeballsThrown = stats.Int("pokeballs_thrown", 0)
	p.UniquePokedexEntries = stats.Int("unique_pokedex_entries", 0)
	p.PokemonsCaptured = stats.Int("pokemons_captured", 0)
	p.PokemonsEncountered = stats.Int("pokemons_encountered", 0)
	p.PokeStopVisits = stats.Int("poke_stop_visits", 0)
	p.NextLevelXP = stats.Int64("next_level_xp", 0)
	p.PrevLevelXP = stats.Int64("prev_level_xp", 0)
	p.Experience = stats.Int64("experience", 0)
	p.Level = stats.Int("level", DefaultLevel)
}

// CreationTime returns the account creation time.
func (p *Player) CreationTime() time.Time {
	return time.UnixMilli(p.CreationTimestampMs)
}

// ExperienceToNextLevel returns the experience still needed to level up.
func (p *Player) ExperienceToNextLevel() int64 {
	return max(p.NextLevelXP-p.Experience, 0)
}
