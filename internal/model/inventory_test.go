// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(data map[string]any) map[string]any {
	return map[string]any{"inventory_item_data": data}
}

func delta(items ...map[string]any) Raw {
	list := make([]any, 0, len(items))
	for _, i := range items {
		list = append(list, i)
	}
	return Raw{"inventory_delta": map[string]any{
		"new_timestamp_ms": 1000,
		"inventory_items":  list,
	}}
}

func TestInventory_ApplyDelta_CandyZeroRemovesEntry(t *testing.T) {
	inv := NewInventory()
	inv.ApplyDelta(delta(item(map[string]any{"candy": map[string]any{"family_id": 5, "candy": 12}})))
	require.Equal(t, 12, inv.Candy[5])

	inv.ApplyDelta(delta(item(map[string]any{"candy": map[string]any{"family_id": 5, "candy": 0}})))

	_, ok := inv.Candy[5]
	assert.False(t, ok, "zero count must remove the family entirely")
}

func TestInventory_ApplyDelta_ItemsUpsertAndDelete(t *testing.T) {
	inv := NewInventory()
	inv.ApplyDelta(delta(
		item(map[string]any{"item": map[string]any{"item_id": 1, "count": 20}}),
		item(map[string]any{"item": map[string]any{"item_id": 101, "count": 3}}),
		item(map[string]any{"item": map[string]any{"item_id": 0, "count": 3}}),
	))
	assert.Equal(t, map[int]int{1: 20, 101: 3}, inv.Items)
	assert.Equal(t, 23, inv.ItemCount())
	assert.Equal(t, []int{1, 101}, inv.ItemIDs())
	assert.Equal(t, int64(1000), inv.LastUpdatedMs)

	inv.ApplyDelta(delta(
		item(map[string]any{"item": map[string]any{"item_id": 1, "count": 15}}),
		item(map[string]any{"item": map[string]any{"item_id": 101}}),
	))
	assert.Equal(t, map[int]int{1: 15}, inv.Items)
}

func TestInventory_ApplyDelta_PokemonAndEggs(t *testing.T) {
	inv := NewInventory()
	inv.ApplyDelta(delta(
		item(map[string]any{"pokemon_data": map[string]any{"id": 11, "pokemon_id": 16, "cp": 10}}),
		item(map[string]any{"pokemon_data": map[string]any{"id": 12, "is_egg": true, "egg_km_walked_target": 5.0}}),
	))
	require.Len(t, inv.Pokemon, 1)
	require.Len(t, inv.Eggs, 1)
	assert.InDelta(t, 5.0, inv.Eggs[0].TotalDistance, 1e-9)

	inv.ApplyDelta(delta(
		item(map[string]any{"pokemon_data": map[string]any{"id": 11, "pokemon_id": 16, "cp": 99}}),
	))
	require.Len(t, inv.Pokemon, 1, "same id upserts")
	assert.Equal(t, 99, inv.Pokemon[0].CombatPower)
}

func TestInventory_ApplyDelta_DeletedItems(t *testing.T) {
	inv := NewInventory()
	inv.ApplyDelta(delta(
		item(map[string]any{"pokemon_data": map[string]any{"id": 11, "pokemon_id": 16}}),
		item(map[string]any{"pokemon_data": map[string]any{"id": 12, "pokemon_id": 19}}),
	))

	res := inv.ApplyDelta(delta(
		map[string]any{"deleted_item": map[string]any{"pokemon_id": 11}},
		map[string]any{"deleted_item": map[string]any{"sticker_id": 3}},
		item(map[string]any{"candy": map[string]any{"family_id": 16, "candy": 3}}),
	))

	require.Len(t, inv.Pokemon, 1)
	assert.Equal(t, uint64(12), inv.Pokemon[0].UniqueID)
	assert.Equal(t, []string{"sticker_id"}, res.UnknownDeletions)
	assert.Equal(t, 3, inv.Candy[16], "parsing continues after an unknown deletion")
}

func TestInventory_ApplyDelta_IncubatorsAndStats(t *testing.T) {
	inv := NewInventory()
	res := inv.ApplyDelta(delta(
		item(map[string]any{"egg_incubators": map[string]any{
			"egg_incubator": map[string]any{"id": "EggIncubatorProto-1", "item_id": 901},
		}}),
		item(map[string]any{"player_stats": map[string]any{"level": 12, "experience": 4000}}),
		item(map[string]any{"pokedex_entry": map[string]any{"pokemon_id": 16, "times_captured": 2}}),
	))

	require.Len(t, inv.Incubators, 1)
	assert.Equal(t, "EggIncubatorProto-1", inv.Incubators[0].UniqueID)
	assert.Equal(t, 12, res.PlayerStats.Int("level", 0))
	assert.Equal(t, 2, inv.Pokedex[16].TimesCaptured)
}

func TestInventory_CloneIsIndependent(t *testing.T) {
	inv := NewInventory()
	inv.Candy[1] = 5
	c := inv.Clone()
	c.Candy[1] = 0
	c.Candy[2] = 3

	assert.Equal(t, map[int]int{1: 5}, inv.Candy)

	var nilInv *Inventory
	assert.NotNil(t, nilInv.Clone().Items)
}

func TestInventory_PokemonByID(t *testing.T) {
	inv := NewInventory()
	inv.ApplyDelta(delta(
		item(map[string]any{"pokemon_data": map[string]any{"id": 11, "pokemon_id": 16}}),
		item(map[string]any{"pokemon_data": map[string]any{"id": 12, "pokemon_id": 19}}),
	))

	p, ok := inv.PokemonByID(12)
	require.True(t, ok)
	assert.Equal(t, 19, p.PokemonID)

	_, ok = inv.PokemonByID(99)
	assert.False(t, ok)
}
