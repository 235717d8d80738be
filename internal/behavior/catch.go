// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

// Ball selection thresholds.
const (
	greatBallCP  = 300
	ultraBallCP  = 700
	lowBallStock = 10
)

// Throw skills.
const (
	SkillNormal  = "normal"
	SkillBetter  = "better"
	SkillPerfect = "perfect"
)

// Catcher encounters the pokemon found around the bot and throws balls at
// them until they are caught, flee or the balls run out.
type Catcher struct {
	cfg    CatchConfig
	logger *slog.Logger
	rand   func() float64
	norm   func() float64
}

// NewCatcher creates the catch behavior.
func NewCatcher(cfg CatchConfig, logger *slog.Logger) *Catcher {
	return &Catcher{
		cfg:    cfg,
		logger: logger.With("behavior", "catch"),
		rand:   rand.Float64,
		norm:   rand.NormFloat64,
	}
}

// Name implements Behavior.
func (c *Catcher) Name() string { return "catch" }

// Register implements Behavior.
func (c *Catcher) Register(bus *event.Bus) error {
	regs := []registration{
		{event.PokemonFound, event.NewHandler("catch.wild", c.wild), 0},
	}
	if c.cfg.Lured {
		regs = append(regs, registration{event.LurePokemonFound, event.NewHandler("catch.lured", c.lured), 0})
	}
	return register(bus, regs...)
}

func (c *Catcher) wild(ctx context.Context, ev *event.Event) error {
	return c.each(ctx, ev, false)
}

func (c *Catcher) lured(ctx context.Context, ev *event.Event) error {
	return c.each(ctx, ev, true)
}

// each works through the encounters until one of them reports that no
// further catch can succeed.
func (c *Catcher) each(ctx context.Context, ev *event.Event, lured bool) error {
	if len(ev.Payload.Encounters) == 0 {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	for _, target := range ev.Payload.Encounters {
		stop, err := c.encounter(ctx, sess, target, lured)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

func (c *Catcher) encounter(ctx context.Context, sess Session, target model.MapPokemon, lured bool) (bool, error) {
	pos := sess.Position()
	req := sess.Client().Request()
	if lured {
		req.DiskEncounter(target.EncounterID, target.FortID, pos.Latitude, pos.Longitude)
	} else {
		req.Encounter(target.EncounterID, target.SpawnPointID, pos.Latitude, pos.Longitude)
	}
	store, err := req.Call(ctx)
	if errors.Is(err, api.ErrNoResponse) {
		c.logger.WarnContext(ctx, "empty response from the API, skipping encounter", "encounter_id", target.EncounterID)
		return false, nil
	}
	if err != nil {
		return true, err
	}
	enc, ok := store.Encounter()
	if !ok || store.IsStale(state.KeyEncounter) {
		return false, nil
	}

	bagFull, success := model.EncounterPokemonInventoryFull, model.EncounterSuccess
	if lured {
		bagFull, success = model.DiskEncounterPokemonInventoryFull, model.DiskEncounterSuccess
	}
	switch enc.Status {
	case success:
	case bagFull:
		c.logger.WarnContext(ctx, "pokemon bag is full, cannot catch")
		_, _, err := sess.Fire(ctx, event.PokemonBagFull, &event.Payload{Encounter: &target})
		return true, err
	default:
		c.logger.DebugContext(ctx, "encounter unavailable", "encounter_id", target.EncounterID, "status", enc.Status)
		return false, nil
	}

	pokemon := enc.WildPokemon
	if pokemon == nil {
		return false, nil
	}
	c.logger.InfoContext(ctx, "pokemon appeared",
		"pokemon", sess.Data().PokemonName(pokemon.PokemonID),
		"cp", pokemon.CombatPower,
		"potential", pokemon.Potential(),
		"lured", lured)

	balls, err := sess.Pokeballs(ctx)
	if errors.Is(err, api.ErrNoResponse) {
		c.logger.WarnContext(ctx, "empty response from the API, skipping encounter", "encounter_id", target.EncounterID)
		return false, nil
	}
	if err != nil {
		return true, err
	}

	for {
		ball := ChooseBall(balls, pokemon.CombatPower)
		if ball == 0 {
			c.logger.WarnContext(ctx, "no usable pokeballs, saving them for better pokemon")
			_, _, err := sess.Fire(ctx, event.NoBalls, &event.Payload{Encounter: &target, Pokemon: pokemon})
			return true, err
		}
		balls[ball]--
		c.logger.InfoContext(ctx, "throwing", "ball", sess.Data().ItemName(ball), "left", balls[ball])
		again, err := c.throw(ctx, sess, target, ball, pokemon)
		if err != nil || !again {
			return false, err
		}
	}
}

// throw issues one CATCH_POKEMON and reports whether another ball should follow.
func (c *Catcher) throw(ctx context.Context, sess Session, target model.MapPokemon, ball int, pokemon *model.Pokemon) (bool, error) {
	spawn := target.SpawnPointID
	if target.FortID != "" {
		spawn = target.FortID
	}
	store, err := sess.Client().Request().CatchPokemon(api.CatchParams{
		EncounterID:           target.EncounterID,
		SpawnPointID:          spawn,
		Pokeball:              ball,
		NormalizedReticleSize: 1.95 - c.rand()/200,
		HitPokemon:            true,
		SpinModifier:          c.spinModifier(),
		NormalizedHitPosition: c.hitPosition(),
	}).Call(ctx)
	if errors.Is(err, api.ErrNoResponse) {
		c.logger.WarnContext(ctx, "empty response from the API, giving up on pokemon", "encounter_id", target.EncounterID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	res, ok := store.Encounter()
	if !ok || store.IsStale(state.KeyEncounter) {
		return false, nil
	}

	name := sess.Data().PokemonName(pokemon.PokemonID)
	if res.Caught() {
		owned := c.owned(ctx, sess, res.CapturedPokemonID, pokemon)
		c.logger.InfoContext(ctx, "pokemon caught",
			"pokemon", name, "cp", owned.CombatPower, "potential", owned.Potential(),
			"xp", res.XP, "stardust", res.Stardust, "candy", res.Candy)
		pos := model.Position{Latitude: target.Latitude, Longitude: target.Longitude}
		_, _, err := sess.Fire(ctx, event.PokemonCaught, &event.Payload{Pokemon: owned, Encounter: &target, Position: &pos})
		return false, err
	}

	switch res.Status {
	case model.CatchEscape, model.CatchMissed:
		c.logger.InfoContext(ctx, "pokemon escaped, trying again", "pokemon", name)
		_, _, err := sess.Fire(ctx, event.PokemonCatchFailed, &event.Payload{Pokemon: pokemon, Encounter: &target})
		return err == nil, err
	case model.CatchFlee:
		c.logger.WarnContext(ctx, "pokemon fled", "pokemon", name)
		_, _, err := sess.Fire(ctx, event.PokemonFled, &event.Payload{Pokemon: pokemon, Encounter: &target})
		return false, err
	default:
		c.logger.ErrorContext(ctx, "unexpected catch status", "pokemon", name, "status", res.Status)
		return false, nil
	}
}

// owned returns the caught pokemon as stored in the refreshed inventory, or
// the wild record when it cannot be found there.
func (c *Catcher) owned(ctx context.Context, sess Session, id uint64, wild *model.Pokemon) *model.Pokemon {
	if id == 0 {
		return wild
	}
	store, err := sess.Client().Request().GetInventory().Call(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "inventory refresh after catch failed", "error", err)
		return wild
	}
	if inv, ok := store.Inventory(); ok {
		if p, ok := inv.PokemonByID(id); ok {
			return p
		}
	}
	return wild
}

func (c *Catcher) spinModifier() float64 {
	if c.rand() < c.cfg.Throw.Spin {
		return 1
	}
	return 0
}

func (c *Catcher) hitPosition() float64 {
	mean := 0.8
	switch c.cfg.Throw.Skill {
	case SkillPerfect:
		return 1
	case SkillBetter:
		mean = 0.9
	}
	return min(max(mean+c.norm()*0.15, 0), 1)
}

// ChooseBall picks the ball to throw at a pokemon with the given combat
// power, 0 when nothing should be thrown. Great and ultra balls running
// low are kept for pokemon above their combat power threshold.
func ChooseBall(stock map[int]int, cp int) int {
	ball := 0
	if stock[gamedata.ItemPokeBall] > 0 {
		ball = gamedata.ItemPokeBall
	}
	if n := stock[gamedata.ItemGreatBall]; n > 0 {
		saving := ball == 0 && cp <= greatBallCP && n < lowBallStock
		if !saving && (cp > greatBallCP || ball == 0) {
			ball = gamedata.ItemGreatBall
		}
	}
	if n := stock[gamedata.ItemUltraBall]; n > 0 {
		saving := ball == 0 && cp <= ultraBallCP && n < lowBallStock
		if !saving && (cp > ultraBallCP || ball == 0) {
			ball = gamedata.ItemUltraBall
		}
	}
	return ball
}
