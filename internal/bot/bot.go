// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package bot drives a game session: it refreshes state through the API
// client and fires domain events with itself as the event context.
package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
	"github.com/pogobot/pogobot/pkg/errutil"
)

// Defaults for session pacing.
const (
	DefaultTickInterval  = 10 * time.Second
	DefaultArrivalRadius = 40.0
)

// Bot is the session object handed to listeners as the event context.
type Bot struct {
	client *api.Client
	bus    *event.Bus
	data   *gamedata.Data
	logger *slog.Logger

	tick          time.Duration
	arrivalRadius float64
	waypoints     []model.Position
	now           func() time.Time

	mu        sync.RWMutex
	position  model.Position
	lastLevel int
}

// Option configures a Bot during construction.
type Option func(*Bot)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = l
	}
}

// WithTickInterval sets the pause between Run steps.
func WithTickInterval(d time.Duration) Option {
	return func(b *Bot) {
		b.tick = d
	}
}

// WithArrivalRadius sets the distance in meters at which a pokestop counts as reached.
func WithArrivalRadius(meters float64) Option {
	return func(b *Bot) {
		b.arrivalRadius = meters
	}
}

// WithWaypoints sets the positions Run cycles through. Without waypoints the
// bot stays at its start position.
func WithWaypoints(points []model.Position) Option {
	return func(b *Bot) {
		b.waypoints = append([]model.Position(nil), points...)
	}
}

// New creates a session starting at start.
func New(client *api.Client, bus *event.Bus, data *gamedata.Data, start model.Position, opts ...Option) (*Bot, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if bus == nil {
		return nil, ErrNilBus
	}
	if data == nil {
		return nil, ErrNilData
	}
	b := &Bot{
		client:        client,
		bus:           bus,
		data:          data,
		logger:        slog.Default(),
		tick:          DefaultTickInterval,
		arrivalRadius: DefaultArrivalRadius,
		position:      start,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Client returns the API client.
func (b *Bot) Client() *api.Client { return b.client }

// Bus returns the event bus.
func (b *Bot) Bus() *event.Bus { return b.bus }

// Data returns the static game data.
func (b *Bot) Data() *gamedata.Data { return b.data }

// Logger returns the session logger.
func (b *Bot) Logger() *slog.Logger { return b.logger }

// Position returns the current position.
func (b *Bot) Position() model.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.position
}

// SetPosition moves the bot.
func (b *Bot) SetPosition(p model.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = p
}

// Fire fires name with the bot as the event context.
func (b *Bot) Fire(ctx context.Context, name string, p *event.Payload) (*event.Payload, bool, error) {
	return b.bus.FireWithContext(ctx, name, b, p)
}

// Call executes a single call immediately.
func (b *Bot) Call(ctx context.Context, method state.Method, params map[string]any) (*state.Store, error) {
	return b.client.Request().Add(method, params).Call(ctx)
}

// Start refreshes the player and inventory, logs the profile and fires
// bot_initialized.
func (b *Bot) Start(ctx context.Context) error {
	store, err := b.UpdatePlayerAndInventory(ctx)
	if err != nil {
		return err
	}
	b.logProfile(ctx, store)
	_, _, err = b.Fire(ctx, event.BotInitialized, nil)
	return err
}

// UpdatePlayerAndInventory fetches the player profile and inventory. When the
// player level went up since the last refresh, player_level_up is fired.
func (b *Bot) UpdatePlayerAndInventory(ctx context.Context) (*state.Store, error) {
	store, err := b.client.Request().GetPlayer().GetInventory().Call(ctx)
	if err != nil {
		return nil, err
	}
	player, ok := store.Player()
	if !ok {
		return store, nil
	}

	b.mu.Lock()
	previous := b.lastLevel
	b.lastLevel = player.Level
	b.mu.Unlock()

	if previous != 0 && player.Level > previous {
		b.logger.InfoContext(ctx, "player leveled up", "level", player.Level)
		if _, _, err := b.Fire(ctx, event.PlayerLevelUp, &event.Payload{Level: player.Level}); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Pokeballs returns the number of each ball type held, keyed by item id.
func (b *Bot) Pokeballs(ctx context.Context) (map[int]int, error) {
	store, err := b.client.Request().GetInventory().Call(ctx)
	if err != nil {
		return nil, err
	}
	balls := make(map[int]int, len(gamedata.Pokeballs))
	inv, ok := store.Inventory()
	for _, id := range gamedata.Pokeballs {
		if ok {
			balls[id] = inv.Items[id]
		} else {
			balls[id] = 0
		}
	}
	return balls, nil
}

// WorkOnCells refreshes the map around the current position and fires
// pokemon_found, lure_pokemon_found and pokestops_found. Pokestops that survive the
// pokestops_found listeners and lie within the arrival radius get a
// pokestop_arrived event each.
func (b *Bot) WorkOnCells(ctx context.Context) error {
	pos := b.Position()
	store, err := b.client.Request().GetMapObjects(pos.Latitude, pos.Longitude, nil).Call(ctx)
	if err != nil {
		return err
	}
	worldMap, ok := store.WorldMap()
	if !ok {
		return nil
	}

	var encounters []model.MapPokemon
	for _, c := range worldMap.Cells {
		encounters = append(encounters, c.Catchable...)
		encounters = append(encounters, c.Wild...)
	}
	if len(encounters) > 0 {
		if _, _, err := b.Fire(ctx, event.PokemonFound, &event.Payload{Encounters: encounters}); err != nil {
			return err
		}
	}

	pokestops := worldMap.PokeStops()
	if lured := luredPokemon(pokestops, b.now()); len(lured) > 0 {
		if _, _, err := b.Fire(ctx, event.LurePokemonFound, &event.Payload{Encounters: lured}); err != nil {
			return err
		}
	}
	if len(pokestops) == 0 {
		return nil
	}
	found, ok, err := b.Fire(ctx, event.PokestopsFound, &event.Payload{Pokestops: pokestops})
	if err != nil || !ok {
		return err
	}
	for _, stop := range found.Pokestops {
		if !stop.HasPosition || Distance(pos, stop.Position()) > b.arrivalRadius {
			continue
		}
		if _, _, err := b.Fire(ctx, event.PokestopArrived, &event.Payload{Pokestop: stop}); err != nil {
			return err
		}
	}
	return nil
}

// luredPokemon lists the pokemon sitting on active lures.
func luredPokemon(stops []*model.PokeStop, now time.Time) []model.MapPokemon {
	var out []model.MapPokemon
	for _, stop := range stops {
		if !stop.HasLure(now) {
			continue
		}
		out = append(out, model.MapPokemon{
			EncounterID:  stop.LureEncounterID,
			PokemonID:    stop.LureActivePokemonID,
			Latitude:     stop.Latitude,
			Longitude:    stop.Longitude,
			ExpirationMs: stop.LureExpiresMs,
			FortID:       stop.ID,
		})
	}
	return out
}

// Step walks to dest: it fires walking_started, moves, reports the position
// to the server, works on the cells there, refreshes the player and fires
// walking_finished.
func (b *Bot) Step(ctx context.Context, dest model.Position) error {
	if _, _, err := b.Fire(ctx, event.WalkingStarted, &event.Payload{Position: &dest}); err != nil {
		return err
	}
	b.SetPosition(dest)
	if _, _, err := b.Fire(ctx, event.PositionUpdated, &event.Payload{Position: &dest}); err != nil {
		return err
	}
	if _, err := b.client.Request().PlayerUpdate(dest.Latitude, dest.Longitude).Call(ctx); err != nil {
		return err
	}
	if err := b.WorkOnCells(ctx); err != nil {
		return err
	}
	if _, err := b.UpdatePlayerAndInventory(ctx); err != nil {
		return err
	}
	_, _, err := b.Fire(ctx, event.WalkingFinished, &event.Payload{Position: &dest})
	return err
}

// Run starts the session and steps through the waypoints until ctx is
// cancelled. API failures of a single step are logged and the step is
// retried on the next tick; listener faults stop the session.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(ctx); err != nil {
		return err
	}
	if len(b.waypoints) > 0 {
		if _, _, err := b.Fire(ctx, event.Route, &event.Payload{Route: b.waypoints}); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(b.tick)
	defer ticker.Stop()

	for i := 0; ; i++ {
		if err := b.Step(ctx, b.nextWaypoint(i)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !isTransient(err) {
				Steps.WithLabelValues(StepFault).Inc()
				return err
			}
			Steps.WithLabelValues(StepTransient).Inc()
			errutil.LogWarn(b.logger, "step failed", err)
		} else {
			Steps.WithLabelValues(StepOK).Inc()
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (b *Bot) nextWaypoint(i int) model.Position {
	if len(b.waypoints) == 0 {
		return b.Position()
	}
	return b.waypoints[i%len(b.waypoints)]
}

func (b *Bot) logProfile(ctx context.Context, store *state.Store) {
	player, ok := store.Player()
	if !ok {
		return
	}
	attrs := []any{
		"username", player.Username,
		"level", player.Level,
		"experience", player.Experience,
		"to_next_level", player.ExperienceToNextLevel(),
		"stardust", player.Stardust,
		"pokecoin", player.Pokecoin,
	}
	if inv, ok := store.Inventory(); ok {
		attrs = append(attrs,
			"items", inv.ItemCount(),
			"max_items", player.MaxItemStorage,
			"pokemon", len(inv.Pokemon),
			"max_pokemon", player.MaxPokemonStorage,
		)
	}
	b.logger.InfoContext(ctx, "player profile", attrs...)
}
