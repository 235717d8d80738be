// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

import "time"

// DefaultFortName is the name of a fort the server did not name.
const DefaultFortName = "Unknown"

// Fort type discriminants.
const (
	FortTypeGym      = 0
	FortTypePokeStop = 1
	// FortTypeDetailGym is the discriminant FORT_DETAILS uses for gyms.
	FortTypeDetailGym = 2
)

// Position is a point on the map.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Fort holds the fields shared by gyms and pokestops.
type Fort struct {
	ID                 string  `json:"fort_id"`
	Name               string  `json:"fort_name"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	HasPosition        bool    `json:"has_position"`
	Enabled            bool    `json:"enabled"`
	LastModifiedMs     int64   `json:"last_modified_timestamp_ms"`
	CooldownCompleteMs int64   `json:"cooldown_timestamp_ms"`
	Type               int     `json:"fort_type"`
}

func newFort(r Raw) Fort {
	return Fort{
		ID:                 r.String("id", r.String("fort_id", "")),
		Name:               r.String("name", DefaultFortName),
		Latitude:           r.Float("latitude", 0),
		Longitude:          r.Float("longitude", 0),
		HasPosition:        r.Has("latitude") && r.Has("longitude"),
		Enabled:            r.Bool("enabled", true),
		LastModifiedMs:     r.Int64("last_modified_timestamp_ms", 0),
		CooldownCompleteMs: r.Int64("cooldown_complete_timestamp_ms", 0),
		Type:               r.Int("type", FortTypeGym),
	}
}

// InCooldown reports whether the fort cannot be searched yet at now.
func (f *Fort) InCooldown(now time.Time) bool {
	return f.CooldownCompleteMs+1000 > now.UnixMilli()
}

// Position returns the fort coordinates.
func (f *Fort) Position() Position {
	return Position{Latitude: f.Latitude, Longitude: f.Longitude}
}

// FortDetail is the value stored for FORT_DETAILS: a *Gym or a *PokeStop.
type FortDetail interface {
	Base() *Fort
}

// PokeStop is a searchable fort.
type PokeStop struct {
	Fort
	ActiveFortModifier  string `json:"active_fort_modifier,omitempty"`
	LureExpiresMs       int64  `json:"lure_expires_timestamp_ms"`
	LureEncounterID     uint64 `json:"lure_encounter_id"`
	LureActivePokemonID int    `json:"lure_active_pokemon_id"`
}

// NewPokeStop parses a fort payload as a pokestop.
func NewPokeStop(r Raw) *PokeStop {
	lure := r.Map("lure_info")
	p := &PokeStop{
		Fort:                newFort(r),
		ActiveFortModifier:  r.String("active_fort_modifier", ""),
		LureExpiresMs:       lure.Int64("lure_expires_timestamp_ms", 0),
		LureEncounterID:     lure.Uint64("encounter_id", 0),
		LureActivePokemonID: lure.Int("active_pokemon_id", 0),
	}
	p.Type = FortTypePokeStop
	return p
}

// Base implements FortDetail.
func (p *PokeStop) Base() *Fort { return &p.Fort }

// HasLure reports whether a lure is active at now.
func (p *PokeStop) HasLure(now time.Time) bool {
	return p.LureEncounterID != 0 && p.LureExpiresMs > now.UnixMilli()
}

// Gym is a battle fort.
type Gym struct {
	Fort
	IsInBattle     bool `json:"is_in_battle"`
	GuardPokemonID int  `json:"guard_pokemon_id"`
	OwnedByTeam    int  `json:"owned_by_team"`
	GymPoints      int  `json:"gym_points"`
}

// NewGym parses a fort payload as a gym.
func NewGym(r Raw) *Gym {
	return &Gym{
		Fort:           newFort(r),
		IsInBattle:     r.Bool("is_in_battle", false),
		GuardPokemonID: r.Int("guard_pokemon_id", 0),
		OwnedByTeam:    r.Int("owned_by_team", 0),
		GymPoints:      r.Int("gym_points", 0),
	}
}

// Base implements FortDetail.
func (g *Gym) Base() *Fort { return &g.Fort }

// ParseFortDetail parses a FORT_DETAILS response. The type discriminant
// defaults to a gym.
func ParseFortDetail(r Raw) FortDetail {
	if r.Int("type", FortTypeDetailGym) == FortTypeDetailGym {
		return NewGym(r)
	}
	return NewPokeStop(r)
}

// MapPokemon is a catchable or wild pokemon listed in a map cell.
type MapPokemon struct {
	EncounterID  uint64  `json:"encounter_id"`
	SpawnPointID string  `json:"spawn_point_id"`
	PokemonID    int     `json:"pokemon_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ExpirationMs int64   `json:"expiration_timestamp_ms"`
	FortID       string  `json:"fort_id,omitempty"`
}

// NewMapPokemon parses a catchable_pokemons or wild_pokemons entry.
func NewMapPokemon(r Raw) MapPokemon {
	return MapPokemon{
		EncounterID:  r.Uint64("encounter_id", 0),
		SpawnPointID: r.String("spawn_point_id", ""),
		PokemonID:    r.Int("pokemon_id", r.Map("pokemon_data").Int("pokemon_id", 0)),
		Latitude:     r.Float("latitude", 0),
		Longitude:    r.Float("longitude", 0),
		ExpirationMs: r.Int64("expiration_timestamp_ms", r.Int64("time_till_hidden_ms", 0)),
		FortID:       r.String("fort_id", ""),
	}
}

// NearbyPokemon is a pokemon sensed but not yet located.
type NearbyPokemon struct {
	PokemonID      int     `json:"pokemon_id"`
	DistanceMeters float64 `json:"distance_in_meters"`
	EncounterID    uint64  `json:"encounter_id"`
}

// Cell is one S2 cell of the map.
type Cell struct {
	ID          uint64          `json:"cell_id"`
	SpawnPoints []Position      `json:"spawn_points"`
	Gyms        []*Gym          `json:"gyms"`
	PokeStops   []*PokeStop     `json:"pokestops"`
	Catchable   []MapPokemon    `json:"catchable_pokemon"`
	Nearby      []NearbyPokemon `json:"nearby_pokemon"`
	Wild        []MapPokemon    `json:"wild_pokemon"`
}

// NewCell parses a map_cells entry. Forts of type 1 are pokestops; every
// other fort is a gym.
func NewCell(r Raw) *Cell {
	c := &Cell{ID: r.Uint64("s2_cell_id", 0)}
	for _, sp := range r.List("spawn_points") {
		c.SpawnPoints = append(c.SpawnPoints, Position{
			Latitude:  sp.Float("latitude", 0),
			Longitude: sp.Float("longitude", 0),
		})
	}
	for _, p := range r.List("catchable_pokemons") {
		c.Catchable = append(c.Catchable, NewMapPokemon(p))
	}
	for _, p := range r.List("wild_pokemons") {
		c.Wild = append(c.Wild, NewMapPokemon(p))
	}
	for _, p := range r.List("nearby_pokemons") {
		c.Nearby = append(c.Nearby, NearbyPokemon{
			PokemonID:      p.Int("pokemon_id", 0),
			DistanceMeters: p.Float("distance_in_meters", 0),
			EncounterID:    p.Uint64("encounter_id", 0),
		})
	}
	for _, f := range r.List("forts") {
		if f.Int("type", FortTypeDetailGym) == FortTypePokeStop {
			c.PokeStops = append(c.PokeStops, NewPokeStop(f))
		} else {
			c.Gyms = append(c.Gyms, NewGym(f))
		}
	}
	return c
}

// WorldMap is the set of cells returned by the last GET_MAP_OBJECTS.
type WorldMap struct {
	Cells []*Cell `json:"cells"`
}

// NewWorldMap parses a GET_MAP_OBJECTS response.
func NewWorldMap(r Raw) *WorldMap {
	m := &WorldMap{}
	for _, cell := range r.List("map_cells") {
		m.Cells = append(m.Cells, NewCell(cell))
	}
	return m
}

// Catchable returns the catchable pokemon of all cells, deduplicated by
// encounter id.
func (m *WorldMap) Catchable() []MapPokemon {
	seen := make(map[uint64]bool)
	var out []MapPokemon
	for _, c := range m.Cells {
		for _, p := range c.Catchable {
			if seen[p.EncounterID] {
				continue
			}
			seen[p.EncounterID] = true
			out = append(out, p)
		}
	}
	return out
}

// PokeStops returns the pokestops of all cells.
func (m *WorldMap) PokeStops() []*PokeStop {
	var out []*PokeStop
	for _, c := range m.Cells {
		out = append(out, c.PokeStops...)
	}
	return out
}

// Gyms returns the gyms of all cells.
func (m *WorldMap) Gyms() []*Gym {
	var out []*Gym
	for _, c := range m.Cells {
		out = append(out, c.Gyms...)
	}
	return out
}
