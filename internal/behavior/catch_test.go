// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

var wildPidgey = model.MapPokemon{
	EncounterID:  42,
	SpawnPointID: "sp-1",
	PokemonID:    16,
	Latitude:     51.5,
	Longitude:    -0.12,
}

func newTestCatcher(cfg CatchConfig) *Catcher {
	logger, _ := bufferLogger()
	c := NewCatcher(cfg, logger)
	c.rand = func() float64 { return 0 }
	c.norm = func() float64 { return 0 }
	return c
}

func encounterResponse(status, species, cp int) model.Raw {
	return model.Raw{
		"status": status,
		"wild_pokemon": map[string]any{
			"encounter_id":   42,
			"spawn_point_id": "sp-1",
			"pokemon_data":   map[string]any{"pokemon_id": species, "cp": cp},
		},
	}
}

func ballsResponse(balls map[int]int) model.Raw {
	entries := make([]map[string]any, 0, len(balls))
	for id, count := range balls {
		entries = append(entries, inventoryItem(map[string]any{"item": map[string]any{"item_id": id, "count": count}}))
	}
	return inventoryResponse(entries...)
}

func TestChooseBall(t *testing.T) {
	tests := []struct {
		name  string
		stock map[int]int
		cp    int
		want  int
	}{
		{"poke ball", map[int]int{1: 5}, 100, gamedata.ItemPokeBall},
		{"nothing held", map[int]int{}, 100, 0},
		{"great ball for strong pokemon", map[int]int{1: 5, 2: 3}, 400, gamedata.ItemGreatBall},
		{"poke ball before scarce great ball", map[int]int{1: 5, 2: 3}, 100, gamedata.ItemPokeBall},
		{"scarce great ball is saved", map[int]int{2: 3}, 100, 0},
		{"plentiful great ball is used", map[int]int{2: 12}, 100, gamedata.ItemGreatBall},
		{"ultra ball for very strong pokemon", map[int]int{1: 5, 2: 20, 3: 1}, 800, gamedata.ItemUltraBall},
		{"scarce ultra ball is saved", map[int]int{3: 2}, 500, 0},
		{"master ball is never thrown", map[int]int{4: 5}, 2000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseBall(tt.stock, tt.cp))
		})
	}
}

func TestCatcher_CatchesAfterEscape(t *testing.T) {
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"ENCOUNTER": {encounterResponse(model.EncounterSuccess, 16, 10)},
		"GET_INVENTORY": {
			ballsResponse(map[int]int{gamedata.ItemPokeBall: 5}),
			inventoryResponse(pokemonItem(900, 16, 10)),
		},
		"CATCH_POKEMON": {
			{"status": model.CatchEscape},
			{"status": model.CatchSuccess, "captured_pokemon_id": 900, "capture_award": map[string]any{
				"xp": []any{100}, "stardust": []any{100}, "candy": []any{3},
			}},
		},
	})
	sess := newSession(t, tr)
	require.NoError(t, newTestCatcher(DefaultConfig().Catch).Register(sess.bus))
	seen := listen(t, sess.bus, event.PokemonCatchFailed, event.PokemonCaught)

	_, ok, err := sess.Fire(context.Background(), event.PokemonFound, &event.Payload{Encounters: []model.MapPokemon{wildPidgey}})
	require.NoError(t, err)
	assert.True(t, ok)

	encounters := callsOf(tr, state.MethodEncounter)
	require.Len(t, encounters, 1)
	assert.Equal(t, uint64(42), encounters[0].Params["encounter_id"])
	assert.Equal(t, testPosition.Latitude, encounters[0].Params["player_latitude"])

	throws := callsOf(tr, state.MethodCatchPokemon)
	require.Len(t, throws, 2)
	assert.Equal(t, gamedata.ItemPokeBall, throws[0].Params["pokeball"])
	assert.Equal(t, "sp-1", throws[0].Params["spawn_point_id"])
	assert.InDelta(t, 0.8, throws[0].Params["normalized_hit_position"], 1e-9)
	assert.InDelta(t, 1.0, throws[0].Params["spin_modifier"], 1e-9)

	assert.Equal(t, 1, seen.fired[event.PokemonCatchFailed])
	require.Equal(t, 1, seen.fired[event.PokemonCaught])
	caught := seen.last[event.PokemonCaught]
	assert.Equal(t, uint64(900), caught.Pokemon.UniqueID, "caught pokemon is the owned record")
	assert.Equal(t, uint64(42), caught.Encounter.EncounterID)
	assert.InDelta(t, wildPidgey.Latitude, caught.Position.Latitude, 1e-9)
}

func TestCatcher_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		encounter model.Raw
		balls     map[int]int
		catches   []model.Raw
		fired     string
		times     int
		throws    int
	}{
		{
			name:      "bag full",
			encounter: model.Raw{"status": model.EncounterPokemonInventoryFull},
			balls:     map[int]int{gamedata.ItemPokeBall: 5},
			fired:     event.PokemonBagFull,
			times:     1,
		},
		{
			name:      "balls saved",
			encounter: encounterResponse(model.EncounterSuccess, 16, 100),
			balls:     map[int]int{gamedata.ItemGreatBall: 3},
			fired:     event.NoBalls,
			times:     1,
		},
		{
			name:      "fled",
			encounter: encounterResponse(model.EncounterSuccess, 16, 100),
			balls:     map[int]int{gamedata.ItemPokeBall: 5},
			catches:   []model.Raw{{"status": model.CatchFlee}},
			fired:     event.PokemonFled,
			times:     2,
			throws:    2,
		},
		{
			name:      "balls run out",
			encounter: encounterResponse(model.EncounterSuccess, 16, 100),
			balls:     map[int]int{gamedata.ItemPokeBall: 2},
			catches:   []model.Raw{{"status": model.CatchEscape}},
			fired:     event.NoBalls,
			times:     1,
			throws:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := map[string][]model.Raw{
				"ENCOUNTER":     {tt.encounter},
				"GET_INVENTORY": {ballsResponse(tt.balls)},
			}
			if tt.catches != nil {
				responses["CATCH_POKEMON"] = tt.catches
			}
			tr := api.NewScriptTransport(responses)
			sess := newSession(t, tr)
			require.NoError(t, newTestCatcher(DefaultConfig().Catch).Register(sess.bus))
			seen := listen(t, sess.bus, tt.fired)

			second := wildPidgey
			second.EncounterID = 43
			_, _, err := sess.Fire(context.Background(), event.PokemonFound, &event.Payload{
				Encounters: []model.MapPokemon{wildPidgey, second},
			})
			require.NoError(t, err)

			assert.Equal(t, tt.times, seen.fired[tt.fired])
			assert.Len(t, callsOf(tr, state.MethodCatchPokemon), tt.throws)
			assert.Len(t, callsOf(tr, state.MethodEncounter), tt.times, "encounters stop once no catch can succeed")
		})
	}
}

func TestCatcher_LuredPokemon(t *testing.T) {
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"DISK_ENCOUNTER": {{"result": model.DiskEncounterSuccess, "pokemon_data": map[string]any{"pokemon_id": 129, "cp": 20}}},
		"GET_INVENTORY":  {ballsResponse(map[int]int{gamedata.ItemPokeBall: 5})},
		"CATCH_POKEMON":  {{"status": model.CatchSuccess}},
	})
	sess := newSession(t, tr)
	require.NoError(t, newTestCatcher(DefaultConfig().Catch).Register(sess.bus))
	seen := listen(t, sess.bus, event.PokemonCaught)

	lured := model.MapPokemon{EncounterID: 501, FortID: "stop-1", PokemonID: 129}
	_, _, err := sess.Fire(context.Background(), event.LurePokemonFound, &event.Payload{Encounters: []model.MapPokemon{lured}})
	require.NoError(t, err)

	disks := callsOf(tr, state.MethodDiskEncounter)
	require.Len(t, disks, 1)
	assert.Equal(t, "stop-1", disks[0].Params["fort_id"])
	throws := callsOf(tr, state.MethodCatchPokemon)
	require.Len(t, throws, 1)
	assert.Equal(t, "stop-1", throws[0].Params["spawn_point_id"])
	require.Equal(t, 1, seen.fired[event.PokemonCaught])
	assert.Equal(t, 129, seen.last[event.PokemonCaught].Pokemon.PokemonID, "wild record without a captured id")
}

func TestCatcher_LuredBagFull(t *testing.T) {
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"DISK_ENCOUNTER": {{"result": model.DiskEncounterPokemonInventoryFull}},
	})
	sess := newSession(t, tr)
	require.NoError(t, newTestCatcher(DefaultConfig().Catch).Register(sess.bus))
	seen := listen(t, sess.bus, event.PokemonBagFull)

	lured := model.MapPokemon{EncounterID: 501, FortID: "stop-1"}
	_, _, err := sess.Fire(context.Background(), event.LurePokemonFound, &event.Payload{Encounters: []model.MapPokemon{lured}})
	require.NoError(t, err)
	assert.Equal(t, 1, seen.fired[event.PokemonBagFull])
	assert.Empty(t, callsOf(tr, state.MethodCatchPokemon))
}

func TestCatcher_LuredDisabled(t *testing.T) {
	bus := event.NewBus()
	require.NoError(t, newTestCatcher(CatchConfig{Enabled: true}).Register(bus))

	assert.Equal(t, 1, bus.ListenerCount(event.PokemonFound))
	assert.Equal(t, 0, bus.ListenerCount(event.LurePokemonFound))
}

func TestCatcher_HitPosition(t *testing.T) {
	tests := []struct {
		skill string
		norm  float64
		want  float64
	}{
		{SkillNormal, 0, 0.8},
		{SkillBetter, 0, 0.9},
		{SkillPerfect, -3, 1},
		{SkillNormal, 10, 1},
		{SkillNormal, -10, 0},
	}
	for _, tt := range tests {
		c := newTestCatcher(CatchConfig{Throw: ThrowConfig{Skill: tt.skill}})
		c.norm = func() float64 { return tt.norm }
		assert.InDelta(t, tt.want, c.hitPosition(), 1e-9, "%s %v", tt.skill, tt.norm)
	}
}
