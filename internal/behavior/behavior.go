// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package behavior holds the built-in Go listeners: pokestop spinning,
// catching, transferring, evolving, item recycling, egg incubation, level-up
// rewards and the event journal.
package behavior

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cast"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/model"
)

// CodeNoSession marks an event fired without a session context.
const CodeNoSession = "NO_SESSION"

// Session is what behaviors need from the event context.
type Session interface {
	Client() *api.Client
	Data() *gamedata.Data
	Position() model.Position
	Pokeballs(ctx context.Context) (map[int]int, error)
	Fire(ctx context.Context, name string, p *event.Payload) (*event.Payload, bool, error)
}

// Behavior is a group of listeners registered together.
type Behavior interface {
	Name() string
	Register(bus *event.Bus) error
}

type registration struct {
	event    string
	handler  *event.Handler
	priority int
}

func register(bus *event.Bus, regs ...registration) error {
	for _, r := range regs {
		if err := bus.Register(r.event, r.handler, r.priority); err != nil {
			return err
		}
	}
	return nil
}

func sessionFrom(ev *event.Event) (Session, error) {
	s, ok := ev.Context.(Session)
	if !ok {
		return nil, oops.Code(CodeNoSession).
			In("behavior").
			With("event", ev.Name).
			Errorf("event context %T is not a session", ev.Context)
	}
	return s, nil
}

// Option configures the built-in behaviors.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used by every built-in behavior.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Enabled returns the built-in behaviors switched on in cfg.
func Enabled(cfg Config, opts ...Option) []Behavior {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var out []Behavior
	if cfg.Spin.Enabled {
		out = append(out, NewSpinner(o.logger))
	}
	if cfg.Catch.Enabled {
		out = append(out, NewCatcher(cfg.Catch, o.logger))
	}
	if cfg.Transfer.Enabled {
		out = append(out, NewTransferrer(cfg.Transfer, o.logger))
	}
	if cfg.Evolve.Enabled {
		out = append(out, NewEvolver(cfg.Evolve, o.logger))
	}
	if cfg.Recycle.Enabled {
		out = append(out, NewRecycler(cfg.Recycle, o.logger))
	}
	if cfg.Incubator.Enabled {
		out = append(out, NewIncubator(cfg.Incubator, o.logger))
	}
	if cfg.Rewards.Enabled {
		out = append(out, NewRewardCollector(o.logger))
	}
	if cfg.Journal.Enabled {
		out = append(out, NewJournal(o.logger))
	}
	return out
}

// RegisterAll registers every behavior on bus.
func RegisterAll(bus *event.Bus, behaviors ...Behavior) error {
	for _, b := range behaviors {
		if err := b.Register(bus); err != nil {
			return oops.In("behavior").With("behavior", b.Name()).Wrap(err)
		}
	}
	return nil
}

// matchesSpecies reports whether list names species id, either by pokedex
// number or by name ignoring case.
func matchesSpecies(list []string, data *gamedata.Data, id int) bool {
	name := data.PokemonName(id)
	for _, entry := range list {
		if n, err := cast.ToIntE(entry); err == nil {
			if n == id {
				return true
			}
			continue
		}
		if strings.EqualFold(entry, name) {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
