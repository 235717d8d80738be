// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/pogobot/pogobot/internal/event"
)

// journalPriority runs the journal after the other listeners so it logs the
// final payload.
const journalPriority = 10000

// Journal logs every known event with the payload fields it carries.
type Journal struct {
	logger *slog.Logger
}

// NewJournal creates the journal behavior.
func NewJournal(logger *slog.Logger) *Journal {
	return &Journal{logger: logger.With("behavior", "journal")}
}

// Name implements Behavior.
func (j *Journal) Name() string { return "journal" }

// Register implements Behavior.
func (j *Journal) Register(bus *event.Bus) error {
	h := event.NewHandler("journal", j.record)
	for _, name := range event.Known() {
		if err := bus.Register(name, h, journalPriority); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) record(ctx context.Context, ev *event.Event) error {
	fields, err := ev.Payload.Fields()
	if err != nil {
		return err
	}
	j.logger.InfoContext(ctx, "event", "event", ev.Name, "fields", slices.Sorted(maps.Keys(fields)))
	return nil
}
