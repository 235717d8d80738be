// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/pogobot/pogobot/internal/event"
)

// Recycler drops surplus items when the bag fills up.
type Recycler struct {
	cfg    RecycleConfig
	logger *slog.Logger
}

// NewRecycler creates the recycling behavior.
func NewRecycler(cfg RecycleConfig, logger *slog.Logger) *Recycler {
	return &Recycler{cfg: cfg, logger: logger.With("behavior", "recycle")}
}

// Name implements Behavior.
func (r *Recycler) Name() string { return "recycle" }

// Register implements Behavior. The filter computes recyclable_items before
// the recycle listener spends them.
func (r *Recycler) Register(bus *event.Bus) error {
	return register(bus,
		registration{event.BotInitialized, event.NewHandler("recycle.on_start", r.onStart), 0},
		registration{event.ItemBagFull, event.NewHandler("recycle.filter", r.filter), -10},
		registration{event.ItemBagFull, event.NewHandler("recycle.recycle", r.recycle), 0},
	)
}

func (r *Recycler) onStart(ctx context.Context, ev *event.Event) error {
	if !r.cfg.OnStart {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	_, _, err = sess.Fire(ctx, event.ItemBagFull, nil)
	return err
}

// filter replaces recyclable_items with the counts to discard. Without
// incoming counts the current inventory is used.
func (r *Recycler) filter(ctx context.Context, ev *event.Event) error {
	held := ev.Payload.RecyclableItems
	if held == nil {
		sess, err := sessionFrom(ev)
		if err != nil {
			return err
		}
		store, err := sess.Client().Request().GetInventory().Call(ctx)
		if err != nil {
			return err
		}
		if inv, ok := store.Inventory(); ok {
			held = inv.Items
		}
	}
	ev.Payload.RecyclableItems = Surplus(r.cfg.Categories, held)
	return nil
}

func (r *Recycler) recycle(ctx context.Context, ev *event.Event) error {
	items := ev.Payload.RecyclableItems
	if len(items) == 0 {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}

	total := 0
	for _, id := range slices.Sorted(maps.Keys(items)) {
		count := items[id]
		if count <= 0 {
			continue
		}
		r.logger.InfoContext(ctx, "recycling", "item", sess.Data().ItemName(id)+plural(count), "count", count)
		if _, err := sess.Client().Request().RecycleInventoryItem(id, count).Call(ctx); err != nil {
			return err
		}
		total += count
	}
	if total > 0 {
		r.logger.InfoContext(ctx, "recycled items", "count", total)
	}
	return nil
}

// Surplus returns how many of each held item exceed the category limits.
// Within a category higher priority items claim the keep slots first; items
// outside every category and categories with priority zero or lower are
// never recycled.
func Surplus(categories map[string]Category, held map[int]int) map[int]int {
	names := slices.SortedFunc(maps.Keys(categories), func(a, b string) int {
		return cmp.Or(cmp.Compare(categories[a].Priority, categories[b].Priority), cmp.Compare(a, b))
	})

	out := make(map[int]int)
	for _, name := range names {
		cat := categories[name]
		if cat.Priority <= 0 {
			continue
		}
		rules := slices.Clone(cat.Items)
		slices.SortStableFunc(rules, func(a, b ItemRule) int {
			return cmp.Compare(b.Priority, a.Priority)
		})

		kept := 0
		for _, rule := range rules {
			count, ok := held[rule.ItemID]
			if !ok || count <= 0 {
				continue
			}
			keep := cat.TotalKeep - kept
			if rule.Keep != nil {
				keep = min(*rule.Keep, keep)
			}
			keep = max(keep, 0)
			if discard := count - keep; discard > 0 {
				out[rule.ItemID] = discard
			}
			kept += min(count, keep)
		}
	}
	return out
}
