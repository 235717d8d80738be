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
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

func egg(id uint64, km float64) *model.Egg {
	return &model.Egg{UniqueID: id, TotalDistance: km}
}

func incubator(id string, itemID int) *model.Incubator {
	return &model.Incubator{UniqueID: id, ItemID: itemID}
}

type pair struct {
	incubator string
	egg       uint64
}

func pairs(as []Assignment) []pair {
	out := make([]pair, 0, len(as))
	for _, a := range as {
		out = append(out, pair{a.Incubator.UniqueID, a.Egg.UniqueID})
	}
	return out
}

func TestAssign(t *testing.T) {
	busy := &model.Incubator{UniqueID: "busy", ItemID: model.ItemIncubatorUnlimited, PokemonID: 99}
	incubating := &model.Egg{UniqueID: 9, TotalDistance: 10, IncubatorID: "busy"}

	tests := []struct {
		name       string
		cfg        IncubatorConfig
		eggs       []*model.Egg
		incubators []*model.Incubator
		want       []pair
	}{
		{
			name:       "unlimited only by default",
			eggs:       []*model.Egg{egg(1, 2), egg(2, 5)},
			incubators: []*model.Incubator{incubator("limited", 902), incubator("unlimited", model.ItemIncubatorUnlimited)},
			want:       []pair{{"unlimited", 2}},
		},
		{
			name:       "use all takes longest eggs first",
			cfg:        IncubatorConfig{UseAll: true},
			eggs:       []*model.Egg{egg(1, 2), egg(2, 10), egg(3, 5)},
			incubators: []*model.Incubator{incubator("a", model.ItemIncubatorUnlimited), incubator("b", 902)},
			want:       []pair{{"a", 2}, {"b", 3}},
		},
		{
			name:       "busy incubators and incubating eggs are skipped",
			cfg:        IncubatorConfig{UseAll: true},
			eggs:       []*model.Egg{incubating, egg(1, 2)},
			incubators: []*model.Incubator{busy, incubator("free", 902)},
			want:       []pair{{"free", 1}},
		},
		{
			name:       "priority order and unlisted distances",
			cfg:        IncubatorConfig{UseAll: true, Priority: []int{2, 10}},
			eggs:       []*model.Egg{egg(1, 10), egg(2, 5), egg(3, 2)},
			incubators: []*model.Incubator{incubator("a", 902), incubator("b", 902), incubator("c", 902)},
			want:       []pair{{"a", 3}, {"b", 1}},
		},
		{
			name: "restriction picks matching incubator",
			cfg: IncubatorConfig{UseAll: true, Priority: []int{10, 2}, Restrict: map[string]int{
				"10": model.ItemIncubatorUnlimited,
			}},
			eggs:       []*model.Egg{egg(1, 2), egg(2, 10)},
			incubators: []*model.Incubator{incubator("limited", 902), incubator("unlimited", model.ItemIncubatorUnlimited)},
			want:       []pair{{"unlimited", 2}, {"limited", 1}},
		},
		{
			name: "restriction without match skips egg",
			cfg: IncubatorConfig{UseAll: true, Restrict: map[string]int{
				"5": model.ItemIncubatorUnlimited,
			}},
			eggs:       []*model.Egg{egg(1, 5)},
			incubators: []*model.Incubator{incubator("limited", 902)},
			want:       []pair{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pairs(Assign(tt.cfg, tt.eggs, tt.incubators)))
		})
	}
}

func TestIncubator_WalkingStartedIncubatesEggs(t *testing.T) {
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"GET_INVENTORY": {inventoryResponse(
			inventoryItem(map[string]any{"pokemon_data": map[string]any{
				"id": 4242, "is_egg": true, "egg_km_walked_target": 5.0,
			}}),
			inventoryItem(map[string]any{"egg_incubators": map[string]any{
				"egg_incubator": []any{
					map[string]any{"id": "EggIncubatorProto-1", "item_id": model.ItemIncubatorUnlimited},
				},
			}}),
		)},
		"USE_ITEM_EGG_INCUBATOR": {{"result": 1}},
	})
	sess := newSession(t, tr)
	logger, _ := bufferLogger()
	require.NoError(t, NewIncubator(IncubatorConfig{Enabled: true}, logger).Register(sess.bus))

	_, ok, err := sess.Fire(context.Background(), event.WalkingStarted, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	uses := callsOf(tr, state.MethodUseItemEggIncubator)
	require.Len(t, uses, 1)
	assert.Equal(t, "EggIncubatorProto-1", uses[0].Params["item_id"])
	assert.Equal(t, uint64(4242), uses[0].Params["pokemon_id"])
}

func TestIncubator_IncubateEggNeedsBoth(t *testing.T) {
	tr := api.NewScriptTransport(nil)
	sess := newSession(t, tr)
	logger, _ := bufferLogger()
	require.NoError(t, NewIncubator(IncubatorConfig{Enabled: true}, logger).Register(sess.bus))

	_, _, err := sess.Fire(context.Background(), event.IncubateEgg, &event.Payload{Egg: egg(1, 2)})
	require.NoError(t, err)
	assert.Empty(t, tr.History())
}
