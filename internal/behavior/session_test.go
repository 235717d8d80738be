// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

var testPosition = model.Position{Latitude: 51.5007, Longitude: -0.1246}

type fakeSession struct {
	client *api.Client
	data   *gamedata.Data
	bus    *event.Bus
	pos    model.Position
}

func (s *fakeSession) Client() *api.Client      { return s.client }
func (s *fakeSession) Data() *gamedata.Data     { return s.data }
func (s *fakeSession) Position() model.Position { return s.pos }

func (s *fakeSession) Pokeballs(ctx context.Context) (map[int]int, error) {
	store, err := s.client.Request().GetInventory().Call(ctx)
	if err != nil {
		return nil, err
	}
	balls := make(map[int]int, len(gamedata.Pokeballs))
	if inv, ok := store.Inventory(); ok {
		for _, id := range gamedata.Pokeballs {
			balls[id] = inv.Items[id]
		}
	}
	return balls, nil
}

func (s *fakeSession) Fire(ctx context.Context, name string, p *event.Payload) (*event.Payload, bool, error) {
	return s.bus.FireWithContext(ctx, name, s, p)
}

func newSession(t *testing.T, tr api.Transport) *fakeSession {
	t.Helper()
	client, err := api.NewClient(tr, state.NewStore(), api.WithRetry(1, 0, 0))
	require.NoError(t, err)
	data, err := gamedata.Load()
	require.NoError(t, err)
	return &fakeSession{client: client, data: data, bus: event.NewBus(), pos: testPosition}
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// callsOf returns the executed calls of one method.
func callsOf(tr *api.ScriptTransport, method state.Method) []state.Call {
	var out []state.Call
	for _, batch := range tr.History() {
		for _, c := range batch {
			if c.Method == method {
				out = append(out, c)
			}
		}
	}
	return out
}

func inventoryItem(data map[string]any) map[string]any {
	return map[string]any{"inventory_item_data": data}
}

func inventoryResponse(entries ...map[string]any) model.Raw {
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	return model.Raw{"inventory_delta": map[string]any{"inventory_items": list}}
}

// counter counts the fires of the events it listens to and keeps the last payload.
type counter struct {
	fired map[string]int
	last  map[string]*event.Payload
}

func listen(t *testing.T, bus *event.Bus, names ...string) *counter {
	t.Helper()
	c := &counter{fired: make(map[string]int), last: make(map[string]*event.Payload)}
	for _, name := range names {
		require.NoError(t, bus.Register(name, event.NewHandler("counter", func(_ context.Context, ev *event.Event) error {
			c.fired[ev.Name]++
			c.last[ev.Name] = ev.Payload
			return nil
		}), 0))
	}
	return c
}

func pokemonItem(id uint64, species, cp int) map[string]any {
	return inventoryItem(map[string]any{"pokemon_data": map[string]any{"id": id, "pokemon_id": species, "cp": cp}})
}

func discardLogger() *slog.Logger {
	logger, _ := bufferLogger()
	return logger
}
