// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/model"
)

// Transferrer releases duplicate pokemon, keeping the best of each species.
type Transferrer struct {
	cfg    TransferConfig
	logger *slog.Logger
}

// NewTransferrer creates the transfer behavior.
func NewTransferrer(cfg TransferConfig, logger *slog.Logger) *Transferrer {
	return &Transferrer{cfg: cfg, logger: logger.With("behavior", "transfer")}
}

// Name implements Behavior.
func (tr *Transferrer) Name() string { return "transfer" }

// Register implements Behavior. The filter fills transfer_list before any
// other listener; the release runs after them.
func (tr *Transferrer) Register(bus *event.Bus) error {
	filter := event.NewHandler("transfer.filter", tr.filter)
	release := event.NewHandler("transfer.release", tr.release)
	return register(bus,
		registration{event.BotInitialized, event.NewHandler("transfer.on_start", tr.onStart), 0},
		registration{event.PokemonBagFull, filter, -1000},
		registration{event.PokemonCaught, filter, -1000},
		registration{event.PokemonBagFull, release, 1000},
		registration{event.PokemonCaught, release, 1000},
		registration{event.TransferPokemon, release, 1000},
	)
}

func (tr *Transferrer) onStart(ctx context.Context, ev *event.Event) error {
	if !tr.cfg.OnStart {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	owned, err := tr.owned(ctx, sess)
	if err != nil {
		return err
	}
	list := TransferCandidates(tr.cfg, sess.Data(), owned, 0)
	if len(list) == 0 {
		tr.logger.InfoContext(ctx, "no duplicate pokemon to transfer at start")
		return nil
	}
	_, _, err = sess.Fire(ctx, event.TransferPokemon, &event.Payload{TransferList: list})
	return err
}

// filter replaces transfer_list with the pokemon to release. Without an
// incoming list the owned pokemon are used; with a caught pokemon only its
// species is considered.
func (tr *Transferrer) filter(ctx context.Context, ev *event.Event) error {
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	candidates := ev.Payload.TransferList
	if candidates == nil {
		candidates, err = tr.owned(ctx, sess)
		if err != nil {
			return err
		}
	}
	species := 0
	if ev.Payload.Pokemon != nil {
		species = ev.Payload.Pokemon.PokemonID
	}
	ev.Payload.TransferList = TransferCandidates(tr.cfg, sess.Data(), candidates, species)
	return nil
}

func (tr *Transferrer) release(ctx context.Context, ev *event.Event) error {
	list := ev.Payload.TransferList
	if len(list) == 0 {
		tr.logger.DebugContext(ctx, "no pokemon to transfer", "event", ev.Name)
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}

	released := 0
	for i, p := range list {
		tr.logger.InfoContext(ctx, "transferring",
			"pokemon", sess.Data().PokemonName(p.PokemonID),
			"cp", p.CombatPower,
			"potential", p.Potential(),
			"index", i+1,
			"total", len(list))
		_, err := sess.Client().Request().ReleasePokemon(p.UniqueID).Call(ctx)
		if errors.Is(err, api.ErrNoResponse) {
			tr.logger.WarnContext(ctx, "empty response from the API, skipping pokemon", "pokemon_id", p.UniqueID)
			continue
		}
		if err != nil {
			return err
		}
		released++
	}
	tr.logger.InfoContext(ctx, "transferred pokemon", "count", released)
	return nil
}

func (tr *Transferrer) owned(ctx context.Context, sess Session) ([]*model.Pokemon, error) {
	store, err := sess.Client().Request().GetInventory().Call(ctx)
	if err != nil {
		return nil, err
	}
	pokemon, _ := store.Pokemon()
	return pokemon, nil
}

// TransferCandidates returns the pokemon of candidates to release. Deployed
// and favorite pokemon are never released, species in the ignore list and
// species with a single member are skipped. When species is not zero only
// that species is considered.
//
// Without keep thresholds every duplicate but the highest combat power one is
// released. With thresholds the members above either threshold are kept, and
// the highest combat power member is kept when none is.
func TransferCandidates(cfg TransferConfig, data *gamedata.Data, candidates []*model.Pokemon, species int) []*model.Pokemon {
	groups := make(map[int][]*model.Pokemon)
	for _, p := range candidates {
		if p == nil || p.IsDeployed() || p.Favorite {
			continue
		}
		if species != 0 && p.PokemonID != species {
			continue
		}
		groups[p.PokemonID] = append(groups[p.PokemonID], p)
	}

	var out []*model.Pokemon
	for _, id := range slices.Sorted(maps.Keys(groups)) {
		group := groups[id]
		if len(group) < 2 || matchesSpecies(cfg.Ignore, data, id) {
			continue
		}
		slices.SortStableFunc(group, func(a, b *model.Pokemon) int {
			return cmp.Or(cmp.Compare(a.CombatPower, b.CombatPower), cmp.Compare(a.UniqueID, b.UniqueID))
		})

		release := make([]*model.Pokemon, 0, len(group))
		for _, p := range group {
			if !keeps(cfg, p) {
				release = append(release, p)
			}
		}
		if len(release) == len(group) {
			release = group[:len(group)-1]
		}
		out = append(out, release...)
	}
	return out
}

// keeps reports whether p clears one of the keep thresholds.
func keeps(cfg TransferConfig, p *model.Pokemon) bool {
	return (cfg.KeepCP > 0 && p.CombatPower >= cfg.KeepCP) ||
		(cfg.KeepPotential > 0 && p.Potential() >= cfg.KeepPotential)
}
