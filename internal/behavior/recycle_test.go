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

func keep(n int) *int { return &n }

func TestSurplus(t *testing.T) {
	potions := Category{Priority: 1, TotalKeep: 10, Items: []ItemRule{
		{ItemID: 101, Priority: 1},
		{ItemID: 102, Priority: 2, Keep: keep(4)},
	}}
	balls := Category{Priority: 0, Items: []ItemRule{{ItemID: 1}}}

	tests := []struct {
		name       string
		categories map[string]Category
		held       map[int]int
		want       map[int]int
	}{
		{
			name:       "under limit keeps everything",
			categories: map[string]Category{"potions": potions},
			held:       map[int]int{101: 3, 102: 2},
			want:       map[int]int{},
		},
		{
			name:       "better items claim slots first",
			categories: map[string]Category{"potions": potions},
			held:       map[int]int{101: 20, 102: 10},
			want:       map[int]int{101: 14, 102: 6},
		},
		{
			name:       "item keep caps below remaining slots",
			categories: map[string]Category{"potions": potions},
			held:       map[int]int{102: 5},
			want:       map[int]int{102: 1},
		},
		{
			name:       "non-positive priority never recycles",
			categories: map[string]Category{"balls": balls},
			held:       map[int]int{1: 500},
			want:       map[int]int{},
		},
		{
			name:       "uncategorized items are kept",
			categories: map[string]Category{"potions": potions},
			held:       map[int]int{701: 99},
			want:       map[int]int{},
		},
		{
			name:       "zero total keep discards all",
			categories: map[string]Category{"junk": {Priority: 1, Items: []ItemRule{{ItemID: 703}}}},
			held:       map[int]int{703: 7},
			want:       map[int]int{703: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Surplus(tt.categories, tt.held))
		})
	}
}

func recyclerConfig(onStart bool) RecycleConfig {
	return RecycleConfig{
		Enabled: true,
		OnStart: onStart,
		Categories: map[string]Category{
			"potions": {Priority: 1, TotalKeep: 5, Items: []ItemRule{{ItemID: 101, Priority: 1}}},
		},
	}
}

func recyclingSession(t *testing.T) (*fakeSession, *api.ScriptTransport) {
	t.Helper()
	tr := api.NewScriptTransport(map[string][]model.Raw{
		"GET_INVENTORY": {inventoryResponse(
			inventoryItem(map[string]any{"item": map[string]any{"item_id": 101, "count": 12}}),
			inventoryItem(map[string]any{"item": map[string]any{"item_id": 1, "count": 40}}),
		)},
	})
	return newSession(t, tr), tr
}

func TestRecycler_ItemBagFullRecyclesSurplus(t *testing.T) {
	sess, tr := recyclingSession(t)
	logger, _ := bufferLogger()
	require.NoError(t, NewRecycler(recyclerConfig(false), logger).Register(sess.bus))

	out, ok, err := sess.Fire(context.Background(), event.ItemBagFull, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[int]int{101: 7}, out.RecyclableItems)

	recycled := callsOf(tr, state.MethodRecycleInventoryItem)
	require.Len(t, recycled, 1)
	assert.Equal(t, 101, recycled[0].Params["item_id"])
	assert.Equal(t, 7, recycled[0].Params["count"])
}

func TestRecycler_UsesIncomingCounts(t *testing.T) {
	sess, tr := recyclingSession(t)
	logger, _ := bufferLogger()
	require.NoError(t, NewRecycler(recyclerConfig(false), logger).Register(sess.bus))

	out, _, err := sess.Fire(context.Background(), event.ItemBagFull, &event.Payload{
		RecyclableItems: map[int]int{101: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{101: 1}, out.RecyclableItems)
	assert.Empty(t, callsOf(tr, state.MethodGetInventory))
}

func TestRecycler_RecycleOnStart(t *testing.T) {
	for _, onStart := range []bool{true, false} {
		sess, tr := recyclingSession(t)
		logger, _ := bufferLogger()
		require.NoError(t, NewRecycler(recyclerConfig(onStart), logger).Register(sess.bus))

		_, _, err := sess.Fire(context.Background(), event.BotInitialized, nil)
		require.NoError(t, err)
		if onStart {
			assert.Len(t, callsOf(tr, state.MethodRecycleInventoryItem), 1)
		} else {
			assert.Empty(t, tr.History())
		}
	}
}
