// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

// Evolver evolves the family of a caught pokemon while candy lasts.
type Evolver struct {
	cfg    EvolveConfig
	logger *slog.Logger
}

// NewEvolver creates the evolution behavior.
func NewEvolver(cfg EvolveConfig, logger *slog.Logger) *Evolver {
	return &Evolver{cfg: cfg, logger: logger.With("behavior", "evolve")}
}

// Name implements Behavior.
func (e *Evolver) Name() string { return "evolve" }

// Register implements Behavior. It runs after the transfer filter so the
// pokemon about to be released are left alone.
func (e *Evolver) Register(bus *event.Bus) error {
	return register(bus,
		registration{event.PokemonCaught, event.NewHandler("evolve.after_catch", e.afterCatch), 0},
	)
}

// afterCatch evolves the owned members of the caught pokemon's base species,
// highest combat power first.
func (e *Evolver) afterCatch(ctx context.Context, ev *event.Event) error {
	caught := ev.Payload.Pokemon
	if caught == nil {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	data := sess.Data()
	base := data.Family(caught.PokemonID)
	name := data.PokemonName(base)
	if !matchesSpecies(e.cfg.Species, data, base) {
		return nil
	}
	cost := data.EvolutionCost(base)
	if cost == 0 {
		e.logger.InfoContext(ctx, "species cannot evolve", "pokemon", name)
		return nil
	}

	store, err := sess.Client().Request().GetInventory().Call(ctx)
	if errors.Is(err, api.ErrNoResponse) {
		e.logger.WarnContext(ctx, "empty response from the API, skipping evolution", "pokemon", name)
		return nil
	}
	if err != nil {
		return err
	}
	candy, _ := store.Candy()
	candies := candy[base]
	owned, _ := store.Pokemon()
	candidates := evolveCandidates(owned, base, ev.Payload.TransferList)

	evolved := 0
	for _, p := range candidates {
		if candies < cost {
			break
		}
		store, err := sess.Client().Request().EvolvePokemon(p.UniqueID).Call(ctx)
		if errors.Is(err, api.ErrNoResponse) {
			e.logger.WarnContext(ctx, "empty response from the API, stopping evolution", "pokemon", name)
			break
		}
		if err != nil {
			return err
		}
		res, ok := store.Evolution()
		if !ok || store.IsStale(state.KeyEvolution) || !res.WasSuccessful() {
			e.logger.WarnContext(ctx, "evolution failed", "pokemon", name)
			break
		}
		candies += res.Candy() - cost
		evolved++

		into := 0
		if result := res.Pokemon(); result != nil {
			into = result.PokemonID
		}
		e.logger.InfoContext(ctx, "evolved", "pokemon", name, "into", data.PokemonName(into), "experience", res.Experience())
		if _, _, err := sess.Fire(ctx, event.PokemonEvolved, &event.Payload{Pokemon: p, Evolution: into}); err != nil {
			return err
		}
	}

	switch {
	case candies < cost:
		e.logger.InfoContext(ctx, "not enough candy to evolve", "pokemon", name, "evolved", evolved, "candy", candies)
	case evolved < len(candidates):
		e.logger.WarnContext(ctx, "stopped evolving", "pokemon", name, "evolved", evolved)
	default:
		e.logger.InfoContext(ctx, "evolved all", "pokemon", name, "evolved", evolved)
	}
	return nil
}

// evolveCandidates returns the owned pokemon of species that are neither
// deployed nor listed for transfer, highest combat power first.
func evolveCandidates(owned []*model.Pokemon, species int, transfer []*model.Pokemon) []*model.Pokemon {
	skip := make(map[uint64]bool, len(transfer))
	for _, p := range transfer {
		skip[p.UniqueID] = true
	}
	var out []*model.Pokemon
	for _, p := range owned {
		if p.PokemonID != species || p.IsDeployed() || skip[p.UniqueID] {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b *model.Pokemon) int {
		return cmp.Compare(b.CombatPower, a.CombatPower)
	})
	return out
}
