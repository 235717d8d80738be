// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/model"
)

// Spinner filters discovered pokestops and spins the ones the bot reaches.
type Spinner struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewSpinner creates the pokestop behavior.
func NewSpinner(logger *slog.Logger) *Spinner {
	return &Spinner{logger: logger.With("behavior", "spin"), now: time.Now}
}

// Name implements Behavior.
func (s *Spinner) Name() string { return "spin" }

// Register implements Behavior. The filter runs before other listeners on
// pokestops_found; the spin runs after them on pokestop_arrived.
func (s *Spinner) Register(bus *event.Bus) error {
	return register(bus,
		registration{event.PokestopsFound, event.NewHandler("spin.filter", s.filter), -1000},
		registration{event.PokestopArrived, event.NewHandler("spin.spin", s.spin), 1000},
	)
}

// filter keeps the pokestops that have coordinates and can be searched now.
func (s *Spinner) filter(_ context.Context, ev *event.Event) error {
	now := s.now()
	kept := make([]*model.PokeStop, 0, len(ev.Payload.Pokestops))
	for _, stop := range ev.Payload.Pokestops {
		if stop == nil || !stop.HasPosition || stop.InCooldown(now) {
			continue
		}
		kept = append(kept, stop)
	}
	ev.Payload.Pokestops = kept
	return nil
}

func (s *Spinner) spin(ctx context.Context, ev *event.Event) error {
	stop := ev.Payload.Pokestop
	if stop == nil {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}

	pos := sess.Position()
	s.logger.InfoContext(ctx, "spinning pokestop", "fort_id", stop.ID)
	store, err := sess.Client().Request().
		FortSearch(stop.ID, stop.Latitude, stop.Longitude, pos.Latitude, pos.Longitude).
		Call(ctx)
	if errors.Is(err, api.ErrNoResponse) {
		s.logger.WarnContext(ctx, "empty response from the API, skipping pokestop", "fort_id", stop.ID)
		return nil
	}
	if err != nil {
		return err
	}
	res, ok := store.FortSearch()
	if !ok {
		return nil
	}

	switch res.Result {
	case model.FortSearchSuccess:
		s.logLoot(ctx, sess, stop, res)
	case model.FortSearchOutOfRange:
		s.logger.WarnContext(ctx, "pokestop is out of range", "fort_id", stop.ID)
	case model.FortSearchInCooldown:
		s.logger.WarnContext(ctx, "pokestop is already on cooldown", "fort_id", stop.ID,
			"remaining", s.cooldownRemaining(res.CooldownCompleteMs))
	case model.FortSearchInventoryFull:
		s.logger.WarnContext(ctx, "item bag is full", "fort_id", stop.ID)
		_, _, err := sess.Fire(ctx, event.ItemBagFull, nil)
		return err
	default:
		s.logger.ErrorContext(ctx, "unexpected pokestop result", "fort_id", stop.ID, "result", res.Result)
	}
	return nil
}

func (s *Spinner) logLoot(ctx context.Context, sess Session, stop *model.PokeStop, res *model.FortSearchResult) {
	if res.ExperienceAwarded > 0 {
		s.logger.InfoContext(ctx, "loot", "fort_id", stop.ID, "experience", res.ExperienceAwarded)
	}
	totals := model.AwardTotals(res.ItemsAwarded)
	for _, award := range res.ItemsAwarded {
		count, ok := totals[award.ItemID]
		if !ok {
			continue
		}
		delete(totals, award.ItemID)
		s.logger.InfoContext(ctx, "loot", "fort_id", stop.ID,
			"item", sess.Data().ItemName(award.ItemID)+plural(count), "count", count)
	}
	if len(res.ItemsAwarded) == 0 {
		s.logger.InfoContext(ctx, "nothing found", "fort_id", stop.ID)
	}
	if res.CooldownCompleteMs > 0 {
		s.logger.InfoContext(ctx, "pokestop on cooldown", "fort_id", stop.ID,
			"remaining", s.cooldownRemaining(res.CooldownCompleteMs))
	}
	if len(res.ItemsAwarded) == 0 && res.ExperienceAwarded == 0 && res.CooldownCompleteMs == 0 {
		s.logger.WarnContext(ctx, "spin returned nothing, account might be softbanned", "fort_id", stop.ID)
	}
}

func (s *Spinner) cooldownRemaining(completeMs int64) time.Duration {
	if completeMs == 0 {
		return 0
	}
	return max(time.UnixMilli(completeMs).Sub(s.now()), 0).Round(time.Second)
}
