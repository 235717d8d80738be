// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package gamedata provides read-only lookups for static game data.
package gamedata

import (
	"embed"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

// Item ids referenced by the bot.
const (
	ItemPokeBall   = 1
	ItemGreatBall  = 2
	ItemUltraBall  = 3
	ItemMasterBall = 4
)

// Pokeballs lists the ball item ids from weakest to strongest.
var Pokeballs = []int{ItemPokeBall, ItemGreatBall, ItemUltraBall, ItemMasterBall}

// Unknown is returned for ids missing from the tables.
const Unknown = "Unknown"

// Data holds the static name and evolution tables.
type Data struct {
	pokemon map[int]string
	items   map[int]string
	itemIDs map[string]int
	family  map[int]int
	candy   map[int]int
}

type familyEntry struct {
	Members []int       `yaml:"members"`
	Candy   map[int]int `yaml:"candy"`
}

// Load parses the embedded tables.
func Load() (*Data, error) {
	pokemon, err := loadTable("data/pokemon.yaml")
	if err != nil {
		return nil, err
	}
	items, err := loadTable("data/items.yaml")
	if err != nil {
		return nil, err
	}
	families, err := loadFamilies("data/families.yaml")
	if err != nil {
		return nil, err
	}
	d := &Data{
		pokemon: pokemon,
		items:   items,
		itemIDs: make(map[string]int, len(items)),
		family:  make(map[int]int),
		candy:   make(map[int]int),
	}
	for id, name := range items {
		d.itemIDs[normalize(name)] = id
	}
	for base, f := range families {
		for _, id := range f.Members {
			d.family[id] = base
		}
		for id, cost := range f.Candy {
			d.candy[id] = cost
		}
	}
	return d, nil
}

func loadFamilies(path string) (map[int]familyEntry, error) {
	raw, err := files.ReadFile(path)
	if err != nil {
		return nil, oops.In("gamedata").With("path", path).Wrapf(err, "read families")
	}
	families := make(map[int]familyEntry)
	if err := yaml.Unmarshal(raw, &families); err != nil {
		return nil, oops.In("gamedata").With("path", path).Wrapf(err, "parse families")
	}
	return families, nil
}

func loadTable(path string) (map[int]string, error) {
	raw, err := files.ReadFile(path)
	if err != nil {
		return nil, oops.In("gamedata").With("path", path).Wrapf(err, "read table")
	}
	table := make(map[int]string)
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, oops.In("gamedata").With("path", path).Wrapf(err, "parse table")
	}
	return table, nil
}

// PokemonName returns the species name for a pokedex number.
func (d *Data) PokemonName(id int) string {
	if name, ok := d.pokemon[id]; ok {
		return name
	}
	return Unknown
}

// ItemName returns the display name of an item id.
func (d *Data) ItemName(id int) string {
	if name, ok := d.items[id]; ok {
		return name
	}
	return Unknown
}

// ItemID resolves a display name, ignoring case and spaces.
func (d *Data) ItemID(name string) (int, bool) {
	id, ok := d.itemIDs[normalize(name)]
	return id, ok
}

// Family returns the base species of id's evolution family, which is also
// its candy family id. Species without a family are their own base.
func (d *Data) Family(id int) int {
	if base, ok := d.family[id]; ok {
		return base
	}
	return id
}

// EvolutionCost returns the candy needed to evolve species id, 0 when it
// cannot evolve.
func (d *Data) EvolutionCost(id int) int {
	return d.candy[id]
}

// PokemonCount returns the number of known species.
func (d *Data) PokemonCount() int {
	return len(d.pokemon)
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}
