// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/model"
)

// Incubator puts unincubated eggs into free incubators.
type Incubator struct {
	cfg    IncubatorConfig
	logger *slog.Logger
}

// NewIncubator creates the egg incubation behavior.
func NewIncubator(cfg IncubatorConfig, logger *slog.Logger) *Incubator {
	return &Incubator{cfg: cfg, logger: logger.With("behavior", "incubator")}
}

// Name implements Behavior.
func (in *Incubator) Name() string { return "incubator" }

// Register implements Behavior.
func (in *Incubator) Register(bus *event.Bus) error {
	return register(bus,
		registration{event.WalkingStarted, event.NewHandler("incubator.assign", in.assign), 1000},
		registration{event.IncubateEgg, event.NewHandler("incubator.incubate", in.incubate), 0},
	)
}

// Assignment pairs an egg with the incubator it goes into.
type Assignment struct {
	Incubator *model.Incubator
	Egg       *model.Egg
}

// Assign pairs free eggs with free incubators following cfg.
func Assign(cfg IncubatorConfig, eggs []*model.Egg, incubators []*model.Incubator) []Assignment {
	var free []*model.Incubator
	for _, inc := range incubators {
		if inc.InUse() {
			continue
		}
		if cfg.UseAll || inc.ItemID == model.ItemIncubatorUnlimited {
			free = append(free, inc)
		}
	}

	var waiting []*model.Egg
	for _, egg := range eggs {
		if !egg.IsIncubating() {
			waiting = append(waiting, egg)
		}
	}
	slices.SortStableFunc(waiting, func(a, b *model.Egg) int {
		return cmp.Compare(b.TotalDistance, a.TotalDistance)
	})

	var order []*model.Egg
	if len(cfg.Priority) == 0 {
		order = waiting
	} else {
		for _, km := range cfg.Priority {
			for _, egg := range waiting {
				if int(egg.TotalDistance) == km {
					order = append(order, egg)
				}
			}
		}
	}

	var out []Assignment
	for _, egg := range order {
		if len(free) == 0 {
			break
		}
		idx := 0
		if want, ok := cfg.Restrict[strconv.Itoa(int(egg.TotalDistance))]; ok {
			idx = slices.IndexFunc(free, func(inc *model.Incubator) bool { return inc.ItemID == want })
			if idx < 0 {
				continue
			}
		}
		out = append(out, Assignment{Incubator: free[idx], Egg: egg})
		free = slices.Delete(free, idx, idx+1)
	}
	return out
}

func (in *Incubator) assign(ctx context.Context, ev *event.Event) error {
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	store, err := sess.Client().Request().GetInventory().Call(ctx)
	if err != nil {
		return err
	}
	eggs, _ := store.Eggs()
	incubators, _ := store.Incubators()

	assignments := Assign(in.cfg, eggs, incubators)
	for _, a := range assignments {
		if _, _, err := sess.Fire(ctx, event.IncubateEgg, &event.Payload{Incubator: a.Incubator, Egg: a.Egg}); err != nil {
			return err
		}
	}

	inUse := 0
	for _, inc := range incubators {
		if inc.InUse() {
			inUse++
		}
	}
	if len(incubators) > 0 {
		in.logger.DebugContext(ctx, "incubators in use", "in_use", inUse+len(assignments), "total", len(incubators))
	}
	return nil
}

func (in *Incubator) incubate(ctx context.Context, ev *event.Event) error {
	inc, egg := ev.Payload.Incubator, ev.Payload.Egg
	if inc == nil || egg == nil {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	if _, err := sess.Client().Request().UseItemEggIncubator(inc.UniqueID, egg.UniqueID).Call(ctx); err != nil {
		return err
	}
	in.logger.InfoContext(ctx, "egg incubated", "km", int(egg.TotalDistance), "incubator", inc.UniqueID)
	return nil
}
