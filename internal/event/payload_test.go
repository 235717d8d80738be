// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pogobot/pogobot/internal/model"
)

func TestPayload_SetTypedField(t *testing.T) {
	p := &Payload{}

	require.NoError(t, p.Set("level", 5))
	assert.Equal(t, 5, p.Level)

	require.NoError(t, p.Set("level", 6.0))
	assert.Equal(t, 6, p.Level, "converted through JSON")

	require.NoError(t, p.Set("recyclable_items", map[string]any{"1": 10.0, "101": 2}))
	assert.Equal(t, map[int]int{1: 10, 101: 2}, p.RecyclableItems)

	require.NoError(t, p.Set("pokestop", map[string]any{"fort_id": "abc", "latitude": 1.5}))
	require.NotNil(t, p.Pokestop)
	assert.Equal(t, "abc", p.Pokestop.ID)

	require.NoError(t, p.Set("pokestop", nil))
	assert.Nil(t, p.Pokestop)

	assert.Error(t, p.Set("level", "not a number"))
}

func TestPayload_ExtraFields(t *testing.T) {
	p := &Payload{}
	require.NoError(t, p.Set("v", 1))
	v, ok := p.Get("v")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	require.NoError(t, p.Set("v", nil))
	_, ok = p.Get("v")
	assert.False(t, ok)
}

func TestPayload_GetTypedField(t *testing.T) {
	p := &Payload{Pokemon: &model.Pokemon{PokemonID: 16}}

	v, ok := p.Get("pokemon")
	require.True(t, ok)
	assert.Equal(t, 16, v.(*model.Pokemon).PokemonID)

	_, ok = p.Get("egg")
	assert.False(t, ok)
}

func TestPayload_MergeAndFields(t *testing.T) {
	p := &Payload{}
	require.NoError(t, p.Merge(map[string]any{
		"level":  3,
		"reason": "testing",
	}))

	fields, err := p.Fields()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"level": 3.0, "reason": "testing"}, fields)
}

func TestPayload_CloneIsIndependent(t *testing.T) {
	p := &Payload{RecyclableItems: map[int]int{1: 1}, Extra: map[string]any{"v": 1}}
	c := p.Clone()
	c.RecyclableItems[1] = 5
	c.Extra["v"] = 2

	assert.Equal(t, 1, p.RecyclableItems[1])
	assert.Equal(t, 1, p.Extra["v"])

	var nilPayload *Payload
	assert.NotNil(t, nilPayload.Clone())
}

func TestPayload_CloneCopiesSlices(t *testing.T) {
	first := &model.PokeStop{Fort: model.Fort{ID: "a"}}
	p := &Payload{
		Pokestops:    []*model.PokeStop{first},
		Encounters:   []model.MapPokemon{{EncounterID: 1}},
		TransferList: []*model.Pokemon{{UniqueID: 1}},
		Route:        []model.Position{{Latitude: 1}},
	}
	c := p.Clone()
	c.Pokestops[0] = &model.PokeStop{Fort: model.Fort{ID: "b"}}
	c.Encounters[0].EncounterID = 2
	c.TransferList[0] = nil
	c.Route[0].Latitude = 2

	assert.Same(t, first, p.Pokestops[0])
	assert.Equal(t, uint64(1), p.Encounters[0].EncounterID)
	assert.NotNil(t, p.TransferList[0])
	assert.InDelta(t, 1.0, p.Route[0].Latitude, 1e-9)
}
