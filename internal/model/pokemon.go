// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

// Maximum individual value for attack, defense and stamina.
const maxIndividualValue = 15

// Pokemon is a creature owned by the player or seen in an encounter.
type Pokemon struct {
	UniqueID               uint64  `json:"unique_id"`
	PokemonID              int     `json:"pokemon_id"`
	HP                     int     `json:"hp"`
	MaxHP                  int     `json:"max_hp"`
	CombatPower            int     `json:"combat_power"`
	CombatPowerMultiplier  float64 `json:"combat_power_multiplier"`
	Attack                 int     `json:"attack"`
	Defense                int     `json:"defense"`
	Stamina                int     `json:"stamina"`
	Pokeball               int     `json:"pokeball"`
	Move1                  int     `json:"move_1"`
	Move2                  int     `json:"move_2"`
	CreationTimeMs         int64   `json:"creation_time_ms"`
	CapturedCellID         uint64  `json:"captured_cell_id"`
	Height                 float64 `json:"height"`
	Weight                 float64 `json:"weight"`
	DeployedFortID         string  `json:"deployed_fort_id,omitempty"`
	Favorite               bool    `json:"favorite"`
	Nickname               string  `json:"nickname,omitempty"`
	NumUpgrades            int     `json:"num_upgrades"`
	AdditionalCPMultiplier float64 `json:"additional_cp_multiplier"`
}

// NewPokemon parses a pokemon_data payload.
func NewPokemon(r Raw) *Pokemon {
	return &Pokemon{
		UniqueID:               r.Uint64("id", 0),
		PokemonID:              r.Int("pokemon_id", 0),
		HP:                     r.Int("stamina", r.Int("individual_stamina", 0)),
		MaxHP:                  r.Int("stamina_max", 0),
		CombatPower:            r.Int("cp", 0),
		CombatPowerMultiplier:  r.Float("cp_multiplier", 0),
		Attack:                 r.Int("individual_attack", 0),
		Defense:                r.Int("individual_defense", 0),
		Stamina:                r.Int("individual_stamina", 0),
		Pokeball:               r.Int("pokeball", 1),
		Move1:                  r.Int("move_1", 0),
		Move2:                  r.Int("move_2", 0),
		CreationTimeMs:         r.Int64("creation_time_ms", 0),
		CapturedCellID:         r.Uint64("captured_cell_id", 0),
		Height:                 r.Float("height_m", 0),
		Weight:                 r.Float("weight_kg", 0),
		DeployedFortID:         r.String("deployed_fort_id", ""),
		Favorite:               r.Bool("favorite", false),
		Nickname:               r.String("nickname", ""),
		NumUpgrades:            r.Int("num_upgrades", 0),
		AdditionalCPMultiplier: r.Float("additional_cp_multiplier", 0),
	}
}

// Potential returns the sum of the individual values as a fraction of the maximum.
func (p *Pokemon) Potential() float64 {
	return float64(p.Attack+p.Defense+p.Stamina) / float64(3*maxIndividualValue)
}

// IsDeployed reports whether the pokemon is guarding a gym.
func (p *Pokemon) IsDeployed() bool {
	return p.DeployedFortID != ""
}

// Egg is an unhatched pokemon_data entry.
type Egg struct {
	UniqueID       uint64  `json:"unique_id"`
	WalkedDistance float64 `json:"walked_distance"`
	TotalDistance  float64 `json:"total_distance"`
	CreationTimeMs int64   `json:"creation_time_ms"`
	CapturedCellID uint64  `json:"captured_cell_id"`
	IncubatorID    string  `json:"egg_incubator_id,omitempty"`
}

// NewEgg parses a pokemon_data payload flagged is_egg.
func NewEgg(r Raw) *Egg {
	return &Egg{
		UniqueID:       r.Uint64("id", 0),
		WalkedDistance: r.Float("egg_km_walked_start", 0),
		TotalDistance:  r.Float("egg_km_walked_target", 0),
		CreationTimeMs: r.Int64("creation_time_ms", 0),
		CapturedCellID: r.Uint64("captured_cell_id", 0),
		IncubatorID:    r.String("egg_incubator_id", ""),
	}
}

// IsIncubating reports whether the egg sits in an incubator.
func (e *Egg) IsIncubating() bool {
	return e.IncubatorID != ""
}
