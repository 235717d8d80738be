// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import "github.com/pogobot/pogobot/internal/gamedata"

// Config switches and tunes the built-in behaviors.
type Config struct {
	Spin      SpinConfig      `koanf:"spin"`
	Catch     CatchConfig     `koanf:"catch"`
	Transfer  TransferConfig  `koanf:"transfer"`
	Evolve    EvolveConfig    `koanf:"evolve"`
	Recycle   RecycleConfig   `koanf:"recycle"`
	Incubator IncubatorConfig `koanf:"incubator"`
	Rewards   RewardsConfig   `koanf:"rewards"`
	Journal   JournalConfig   `koanf:"journal"`
}

// SpinConfig configures pokestop spinning.
type SpinConfig struct {
	Enabled bool `koanf:"enabled"`
}

// CatchConfig configures pokemon catching.
type CatchConfig struct {
	Enabled bool `koanf:"enabled"`
	// Lured also catches the pokemon sitting on lured pokestops.
	Lured bool        `koanf:"lured"`
	Throw ThrowConfig `koanf:"throw"`
}

// ThrowConfig shapes each throw.
type ThrowConfig struct {
	// Spin is the chance in [0, 1] of throwing a curveball.
	Spin float64 `koanf:"spin"`
	// Skill is one of normal, better or perfect.
	Skill string `koanf:"skill"`
}

// TransferConfig configures the release of duplicate pokemon.
type TransferConfig struct {
	Enabled bool `koanf:"enabled"`
	// OnStart transfers duplicates once right after the session starts.
	OnStart bool `koanf:"transfer_on_start"`
	// KeepCP keeps pokemon at or above this combat power, 0 disables it.
	KeepCP int `koanf:"keep_cp"`
	// KeepPotential keeps pokemon at or above this potential, 0 disables it.
	KeepPotential float64 `koanf:"keep_potential"`
	// Ignore lists species, by pokedex number or name, never transferred.
	Ignore []string `koanf:"ignore"`
}

// EvolveConfig configures evolution after a catch.
type EvolveConfig struct {
	Enabled bool `koanf:"enabled"`
	// Species lists the base species, by pokedex number or name, to evolve.
	Species []string `koanf:"species"`
}

// RecycleConfig configures item recycling.
type RecycleConfig struct {
	Enabled bool `koanf:"enabled"`
	// OnStart recycles once right after the session starts.
	OnStart    bool                `koanf:"recycle_on_start"`
	Categories map[string]Category `koanf:"item_filter"`
}

// Category groups items that share a keep limit. Items in a category with
// priority zero or lower are never recycled.
type Category struct {
	Priority  int        `koanf:"priority"`
	TotalKeep int        `koanf:"total_keep"`
	Items     []ItemRule `koanf:"items"`
}

// ItemRule is one item of a category. Higher priority items are kept first.
// A nil Keep means the item may fill the whole category.
type ItemRule struct {
	ItemID   int  `koanf:"item_id"`
	Priority int  `koanf:"priority"`
	Keep     *int `koanf:"keep"`
}

// IncubatorConfig configures egg incubation.
type IncubatorConfig struct {
	Enabled bool `koanf:"enabled"`
	// UseAll allows limited incubators; otherwise only the unlimited one is used.
	UseAll bool `koanf:"use_all"`
	// Priority lists egg distances in km, incubated in this order. Empty
	// means every egg, longest first.
	Priority []int `koanf:"priority"`
	// Restrict maps an egg distance to the incubator item id it must use.
	Restrict map[string]int `koanf:"restrict"`
}

// RewardsConfig configures level-up reward collection.
type RewardsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// JournalConfig configures the event journal.
type JournalConfig struct {
	Enabled bool `koanf:"enabled"`
}

// DefaultConfig enables the behaviors that only gather, with a conservative
// item filter. Transfer and evolution release or change pokemon and stay off.
func DefaultConfig() Config {
	return Config{
		Spin:  SpinConfig{Enabled: true},
		Catch: CatchConfig{Enabled: true, Lured: true, Throw: ThrowConfig{Spin: 0.5, Skill: SkillNormal}},
		Transfer: TransferConfig{
			Ignore: []string{"Dratini", "Snorlax", "Lapras"},
		},
		Evolve: EvolveConfig{
			Species: []string{"Pidgey", "Weedle", "Caterpie"},
		},
		Recycle: RecycleConfig{
			Enabled: true,
			Categories: map[string]Category{
				"balls": {Priority: 0, Items: []ItemRule{
					{ItemID: gamedata.ItemPokeBall}, {ItemID: gamedata.ItemGreatBall},
					{ItemID: gamedata.ItemUltraBall}, {ItemID: gamedata.ItemMasterBall},
				}},
				"potions": {Priority: 1, TotalKeep: 50, Items: []ItemRule{
					{ItemID: 101, Priority: 1}, {ItemID: 102, Priority: 2},
					{ItemID: 103, Priority: 3}, {ItemID: 104, Priority: 4},
				}},
				"revives": {Priority: 1, TotalKeep: 20, Items: []ItemRule{
					{ItemID: 201, Priority: 1}, {ItemID: 202, Priority: 2},
				}},
				"berries": {Priority: 1, TotalKeep: 20, Items: []ItemRule{
					{ItemID: 701, Priority: 1},
				}},
			},
		},
		Incubator: IncubatorConfig{Enabled: true, Priority: []int{10, 5, 2}},
		Rewards:   RewardsConfig{Enabled: true},
		Journal:   JournalConfig{Enabled: true},
	}
}
