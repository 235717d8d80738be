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

func owned(id uint64, species, cp int) *model.Pokemon {
	return &model.Pokemon{UniqueID: id, PokemonID: species, CombatPower: cp}
}

func uniqueIDs(list []*model.Pokemon) []uint64 {
	ids := make([]uint64, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.UniqueID)
	}
	return ids
}

func TestTransferCandidates(t *testing.T) {
	data, err := gamedata.Load()
	require.NoError(t, err)

	strong := owned(5, 16, 40)
	strong.Attack, strong.Defense, strong.Stamina = 15, 15, 15
	favorite := owned(6, 19, 5)
	favorite.Favorite = true
	deployed := owned(7, 19, 900)
	deployed.DeployedFortID = "gym-1"

	herd := []*model.Pokemon{
		owned(1, 16, 10), owned(2, 16, 50), owned(3, 16, 30), strong,
		owned(4, 19, 20), owned(8, 19, 25), favorite, deployed,
		owned(9, 147, 100), owned(10, 147, 200),
		owned(11, 10, 15),
	}

	tests := []struct {
		name    string
		cfg     TransferConfig
		species int
		want    []uint64
	}{
		{
			name: "keeps the strongest of each species",
			cfg:  TransferConfig{},
			want: []uint64{1, 3, 5, 4, 9},
		},
		{
			name: "ignored by name",
			cfg:  TransferConfig{Ignore: []string{"dratini"}},
			want: []uint64{1, 3, 5, 4},
		},
		{
			name: "ignored by number",
			cfg:  TransferConfig{Ignore: []string{"16", "147"}},
			want: []uint64{4},
		},
		{
			name: "keep cp threshold",
			cfg:  TransferConfig{KeepCP: 30, Ignore: []string{"Dratini"}},
			want: []uint64{1, 4},
		},
		{
			name: "keep potential threshold",
			cfg:  TransferConfig{KeepPotential: 0.9, Ignore: []string{"Dratini"}},
			want: []uint64{1, 3, 2, 4},
		},
		{
			name: "nobody clears the threshold",
			cfg:  TransferConfig{KeepCP: 1000},
			want: []uint64{1, 3, 5, 4, 9},
		},
		{
			name:    "single species",
			cfg:     TransferConfig{},
			species: 19,
			want:    []uint64{4},
		},
		{
			name:    "species without duplicates",
			cfg:     TransferConfig{},
			species: 10,
			want:    []uint64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransferCandidates(tt.cfg, data, herd, tt.species)
			assert.Equal(t, tt.want, uniqueIDs(got))
		})
	}
}

func pidgeyHerd() model.Raw {
	return inventoryResponse(
		pokemonItem(1, 16, 10),
		pokemonItem(2, 16, 50),
		pokemonItem(3, 16, 30),
		pokemonItem(4, 19, 20),
		pokemonItem(8, 19, 25),
	)
}

func releasedIDs(tr *api.ScriptTransport) []any {
	var ids []any
	for _, c := range callsOf(tr, state.MethodReleasePokemon) {
		ids = append(ids, c.Params["pokemon_id"])
	}
	return ids
}

func TestTransferrer_ReleasesDuplicatesOfCaughtSpecies(t *testing.T) {
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"GET_INVENTORY":   {pidgeyHerd()},
		"RELEASE_POKEMON": {{"result": 1}},
	})
	sess := newSession(t, tr)
	require.NoError(t, NewTransferrer(TransferConfig{Enabled: true}, discardLogger()).Register(sess.bus))

	p, _, err := sess.Fire(context.Background(), event.PokemonCaught, &event.Payload{Pokemon: owned(2, 16, 50)})
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 3}, uniqueIDs(p.TransferList))
	assert.Equal(t, []any{uint64(1), uint64(3)}, releasedIDs(tr))
}

func TestTransferrer_BagFullReleasesEverySpecies(t *testing.T) {
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"GET_INVENTORY":   {pidgeyHerd()},
		"RELEASE_POKEMON": {{"result": 1}},
	})
	sess := newSession(t, tr)
	require.NoError(t, NewTransferrer(TransferConfig{Enabled: true}, discardLogger()).Register(sess.bus))

	_, _, err := sess.Fire(context.Background(), event.PokemonBagFull, &event.Payload{})
	require.NoError(t, err)

	assert.Equal(t, []any{uint64(1), uint64(3), uint64(4)}, releasedIDs(tr))
}

func TestTransferrer_OnStart(t *testing.T) {
	tests := []struct {
		name    string
		onStart bool
		fired   int
		release int
	}{
		{"enabled", true, 1, 3},
		{"disabled", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := api.NewScriptTransport(map[string][]model.Raw{
				"GET_INVENTORY":   {pidgeyHerd()},
				"RELEASE_POKEMON": {{"result": 1}},
			})
			sess := newSession(t, tr)
			cfg := TransferConfig{Enabled: true, OnStart: tt.onStart}
			require.NoError(t, NewTransferrer(cfg, discardLogger()).Register(sess.bus))
			seen := listen(t, sess.bus, event.TransferPokemon)

			_, _, err := sess.Fire(context.Background(), event.BotInitialized, &event.Payload{})
			require.NoError(t, err)

			assert.Equal(t, tt.fired, seen.fired[event.TransferPokemon])
			assert.Len(t, callsOf(tr, state.MethodReleasePokemon), tt.release)
		})
	}
}

func TestTransferrer_ReleasesGivenList(t *testing.T) {
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"RELEASE_POKEMON": {{"result": 1}},
	})
	sess := newSession(t, tr)
	require.NoError(t, NewTransferrer(TransferConfig{Enabled: true}, discardLogger()).Register(sess.bus))

	_, _, err := sess.Fire(context.Background(), event.TransferPokemon, &event.Payload{
		TransferList: []*model.Pokemon{owned(21, 16, 10), owned(22, 41, 12)},
	})
	require.NoError(t, err)

	assert.Equal(t, []any{uint64(21), uint64(22)}, releasedIDs(tr))
	assert.Empty(t, callsOf(tr, state.MethodGetInventory))
}
