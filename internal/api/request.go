// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package api

import (
	"context"

	"github.com/pogobot/pogobot/internal/state"
)

// Request accumulates calls for one batch. Builder methods return the
// request so calls can be chained:
//
//	store, err := client.Request().GetPlayer().GetInventory().Call(ctx)
type Request struct {
	client *Client
	calls  []state.Call
}

// Add queues an arbitrary method. Unknown methods fail when the batch is filtered.
func (r *Request) Add(method state.Method, params map[string]any) *Request {
	r.calls = append(r.calls, state.Call{Method: method, Params: params})
	return r
}

// Calls returns the queued calls in order.
func (r *Request) Calls() []state.Call {
	out := make([]state.Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Call executes the queued calls and returns the updated store.
func (r *Request) Call(ctx context.Context, opts ...CallOption) (*state.Store, error) {
	return r.client.Execute(ctx, r.calls, opts...)
}

// GetPlayer queues GET_PLAYER.
func (r *Request) GetPlayer() *Request {
	return r.Add(state.MethodGetPlayer, nil)
}

// GetInventory queues GET_INVENTORY.
func (r *Request) GetInventory() *Request {
	return r.Add(state.MethodGetInventory, nil)
}

// CheckAwardedBadges queues CHECK_AWARDED_BADGES.
func (r *Request) CheckAwardedBadges() *Request {
	return r.Add(state.MethodCheckAwardedBadges, nil)
}

// DownloadSettings queues DOWNLOAD_SETTINGS.
func (r *Request) DownloadSettings(hash string) *Request {
	return r.Add(state.MethodDownloadSettings, map[string]any{"hash": hash})
}

// GetHatchedEggs queues GET_HATCHED_EGGS.
func (r *Request) GetHatchedEggs() *Request {
	return r.Add(state.MethodGetHatchedEggs, nil)
}

// GetMapObjects queues GET_MAP_OBJECTS for the cells around a position.
func (r *Request) GetMapObjects(lat, lng float64, cellIDs []uint64) *Request {
	since := make([]int64, len(cellIDs))
	return r.Add(state.MethodGetMapObjects, map[string]any{
		"latitude":           lat,
		"longitude":          lng,
		"cell_id":            cellIDs,
		"since_timestamp_ms": since,
	})
}

// Encounter queues ENCOUNTER for a wild pokemon.
func (r *Request) Encounter(encounterID uint64, spawnPointID string, playerLat, playerLng float64) *Request {
	return r.Add(state.MethodEncounter, map[string]any{
		"encounter_id":     encounterID,
		"spawn_point_id":   spawnPointID,
		"player_latitude":  playerLat,
		"player_longitude": playerLng,
	})
}

// DiskEncounter queues DISK_ENCOUNTER for a lured pokemon.
func (r *Request) DiskEncounter(encounterID uint64, fortID string, playerLat, playerLng float64) *Request {
	return r.Add(state.MethodDiskEncounter, map[string]any{
		"encounter_id":     encounterID,
		"fort_id":          fortID,
		"player_latitude":  playerLat,
		"player_longitude": playerLng,
	})
}

// CatchParams describes one throw.
type CatchParams struct {
	EncounterID           uint64
	SpawnPointID          string
	Pokeball              int
	NormalizedReticleSize float64
	HitPokemon            bool
	SpinModifier          float64
	NormalizedHitPosition float64
}

// CatchPokemon queues CATCH_POKEMON.
func (r *Request) CatchPokemon(p CatchParams) *Request {
	return r.Add(state.MethodCatchPokemon, map[string]any{
		"encounter_id":            p.EncounterID,
		"spawn_point_id":          p.SpawnPointID,
		"pokeball":                p.Pokeball,
		"normalized_reticle_size": p.NormalizedReticleSize,
		"hit_pokemon":             p.HitPokemon,
		"spin_modifier":           p.SpinModifier,
		"normalized_hit_position": p.NormalizedHitPosition,
	})
}

// ReleasePokemon queues RELEASE_POKEMON.
func (r *Request) ReleasePokemon(pokemonID uint64) *Request {
	return r.Add(state.MethodReleasePokemon, map[string]any{"pokemon_id": pokemonID})
}

// PlayerUpdate queues PLAYER_UPDATE with the current position.
func (r *Request) PlayerUpdate(lat, lng float64) *Request {
	return r.Add(state.MethodPlayerUpdate, map[string]any{"latitude": lat, "longitude": lng})
}

// FortDetails queues FORT_DETAILS.
func (r *Request) FortDetails(fortID string, lat, lng float64) *Request {
	return r.Add(state.MethodFortDetails, map[string]any{
		"fort_id":   fortID,
		"latitude":  lat,
		"longitude": lng,
	})
}

// FortSearch queues FORT_SEARCH to spin a pokestop.
func (r *Request) FortSearch(fortID string, fortLat, fortLng, playerLat, playerLng float64) *Request {
	return r.Add(state.MethodFortSearch, map[string]any{
		"fort_id":          fortID,
		"fort_latitude":    fortLat,
		"fort_longitude":   fortLng,
		"player_latitude":  playerLat,
		"player_longitude": playerLng,
	})
}

// EvolvePokemon queues EVOLVE_POKEMON.
func (r *Request) EvolvePokemon(pokemonID uint64) *Request {
	return r.Add(state.MethodEvolvePokemon, map[string]any{"pokemon_id": pokemonID})
}

// UseItemEggIncubator queues USE_ITEM_EGG_INCUBATOR.
func (r *Request) UseItemEggIncubator(incubatorID string, eggID uint64) *Request {
	return r.Add(state.MethodUseItemEggIncubator, map[string]any{
		"item_id":    incubatorID,
		"pokemon_id": eggID,
	})
}

// RecycleInventoryItem queues RECYCLE_INVENTORY_ITEM.
func (r *Request) RecycleInventoryItem(itemID, count int) *Request {
	return r.Add(state.MethodRecycleInventoryItem, map[string]any{
		"item_id": itemID,
		"count":   count,
	})
}

// LevelUpRewards queues LEVEL_UP_REWARDS.
func (r *Request) LevelUpRewards(level int) *Request {
	return r.Add(state.MethodLevelUpRewards, map[string]any{"level": level})
}
