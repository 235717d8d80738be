// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

import "slices"

// Encounter status codes.
const (
	EncounterSuccess              = 1
	EncounterPokemonFled          = 2
	EncounterNotFound             = 3
	EncounterAlreadyHappened      = 4
	EncounterNotInRange           = 5
	EncounterClosed               = 6
	EncounterPokemonInventoryFull = 7
)

// Disk encounter result codes.
const (
	DiskEncounterSuccess              = 1
	DiskEncounterNotAvailable         = 2
	DiskEncounterNotInRange           = 3
	DiskEncounterAlreadyFinished      = 4
	DiskEncounterPokemonInventoryFull = 5
)

// Catch status codes.
const (
	CatchError   = 0
	CatchSuccess = 1
	CatchEscape  = 2
	CatchFlee    = 3
	CatchMissed  = 4
)

// Encounter holds the active encounter and, after a catch attempt, its outcome.
type Encounter struct {
	Status                  int       `json:"status"`
	Latitude                float64   `json:"latitude"`
	Longitude               float64   `json:"longitude"`
	SpawnPointID            string    `json:"spawn_point_id"`
	EncounterID             uint64    `json:"encounter_id"`
	LastModifiedTimestampMs int64     `json:"last_modified_timestamp_ms"`
	TimeUntilHiddenMs       int64     `json:"time_until_hidden_ms"`
	WildPokemon             *Pokemon  `json:"wild_pokemon,omitempty"`
	Probability             []float64 `json:"probability"`

	CapturedPokemonID uint64 `json:"captured_pokemon_id"`
	XP                int    `json:"xp"`
	Candy             int    `json:"candy"`
	ActivityType      []int  `json:"activity_type"`
	Stardust          int    `json:"stardust"`
}

// NewEncounter returns an Encounter with every field at its default.
func NewEncounter() *Encounter {
	return &Encounter{
		Probability:  []float64{0, 0, 0},
		ActivityType: []int{0, 0, 0},
	}
}

// Clone returns a deep copy.
func (e *Encounter) Clone() *Encounter {
	if e == nil {
		return NewEncounter()
	}
	c := *e
	c.Probability = slices.Clone(e.Probability)
	c.ActivityType = slices.Clone(e.ActivityType)
	return &c
}

// ApplyEncounter applies an ENCOUNTER or DISK_ENCOUNTER response.
func (e *Encounter) ApplyEncounter(r Raw) {
	e.Status = r.Int("status", r.Int("result", 0))

	wild := r.Map("wild_pokemon")
	e.Latitude = wild.Float("latitude", 0)
	e.Longitude = wild.Float("longitude", 0)
	e.SpawnPointID = wild.String("spawn_point_id", "")
	e.EncounterID = wild.Uint64("encounter_id", 0)
	e.LastModifiedTimestampMs = wild.Int64("last_modified_timestamp_ms", 0)
	e.TimeUntilHiddenMs = wild.Int64("time_until_hidden_ms", 0)

	e.WildPokemon = nil
	switch {
	case wild.Has("pokemon_data"):
		e.WildPokemon = NewPokemon(wild.Map("pokemon_data"))
	case r.Has("pokemon_data"):
		e.WildPokemon = NewPokemon(r.Map("pokemon_data"))
	}

	e.Probability = r.Map("capture_probability").Floats("capture_probability")
	if len(e.Probability) == 0 {
		e.Probability = []float64{0, 0, 0}
	}
}

// ApplyCatch applies a CATCH_POKEMON response.
func (e *Encounter) ApplyCatch(r Raw) {
	e.Status = r.Int("status", 0)
	e.CapturedPokemonID = r.Uint64("captured_pokemon_id", r.Uint64("catpured_pokemon_id", 0))

	award := r.Map("capture_award")
	e.XP = sum(award.Ints("xp"))
	e.Candy = sum(award.Ints("candy"))
	e.Stardust = sum(award.Ints("stardust"))
	e.ActivityType = award.Ints("activity_type")
	if len(e.ActivityType) == 0 {
		e.ActivityType = []int{0, 0, 0}
	}
}

// Caught reports whether the last catch attempt succeeded.
func (e *Encounter) Caught() bool {
	return e.Status == CatchSuccess
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
