// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

//go:build integration

package integration

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/behavior"
	"github.com/pogobot/pogobot/internal/bot"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/plugin"
	"github.com/pogobot/pogobot/internal/plugin/capability"
	"github.com/pogobot/pogobot/internal/plugin/hostfunc"
	pluginlua "github.com/pogobot/pogobot/internal/plugin/lua"
	"github.com/pogobot/pogobot/internal/state"
)

var home = model.Position{Latitude: 40.7580, Longitude: -73.9855}

const watcherManifest = `name: watcher
version: 1.0.0
type: lua
capabilities:
  - events.listen.bot_initialized
  - events.listen.pokestop_arrived
  - events.fire.plugin_report
  - state.read.player
lua-plugin:
  entry: main.lua
`

const watcherScript = `
local arrivals = 0

pogobot.on("bot_initialized", function(bot)
  local player = bot.state("player")
  bot.fire("plugin_report", {kind = "initialized", username = player.username, level = player.level})
end)

pogobot.on("pokestop_arrived", function(pokestop, bot)
  arrivals = arrivals + 1
  bot.fire("plugin_report", {kind = "arrived", fort_id = pokestop.fort_id, arrivals = arrivals})
end)
`

func script() map[string][]model.Raw {
	return map[string][]model.Raw{
		"GET_PLAYER": {{"player_data": map[string]any{"username": "misty"}}},
		"GET_INVENTORY": {{"inventory_delta": map[string]any{"inventory_items": []any{
			map[string]any{"inventory_item_data": map[string]any{
				"player_stats": map[string]any{"level": 5, "experience": 5000},
			}},
			map[string]any{"inventory_item_data": map[string]any{
				"item": map[string]any{"item_id": gamedata.ItemPokeBall, "count": 20},
			}},
		}}}},
		"GET_MAP_OBJECTS": {{"map_cells": []any{
			map[string]any{
				"s2_cell_id": 1,
				"forts": []any{
					map[string]any{"id": "stop-near", "type": 1, "latitude": home.Latitude, "longitude": home.Longitude},
					map[string]any{"id": "stop-far", "type": 1, "latitude": home.Latitude + 1, "longitude": home.Longitude},
				},
			},
		}}},
		"FORT_SEARCH": {{
			"result":             model.FortSearchSuccess,
			"experience_awarded": 50,
			"items_awarded":      []any{map[string]any{"item_id": gamedata.ItemPokeBall, "item_count": 3}},
		}},
	}
}

// reports collects plugin_report payloads fired by the Lua plugin.
type reports struct {
	mu     sync.Mutex
	fields []map[string]any
}

func (r *reports) handle(_ context.Context, ev *event.Event) error {
	fields, err := ev.Payload.Fields()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields = append(r.fields, fields)
	return nil
}

func (r *reports) all() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.fields...)
}

type session struct {
	bot       *bot.Bot
	transport *api.ScriptTransport
	manager   *plugin.Manager
	reports   *reports
}

func newSession(ctx context.Context) *session {
	logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
	transport := api.NewScriptTransport(script())
	client, err := api.NewClient(transport, state.NewStore(state.WithLogger(logger)),
		api.WithRetry(1, 0, 0), api.WithLogger(logger))
	Expect(err).NotTo(HaveOccurred())
	data, err := gamedata.Load()
	Expect(err).NotTo(HaveOccurred())

	bus := event.NewBus(event.WithLogger(logger))
	cfg := behavior.DefaultConfig()
	cfg.Incubator.Enabled = false
	cfg.Recycle.Enabled = false
	Expect(behavior.RegisterAll(bus, behavior.Enabled(cfg, behavior.WithLogger(logger))...)).To(Succeed())

	rep := &reports{}
	Expect(bus.Register("plugin_report", event.NewHandler("reports", rep.handle), 0)).To(Succeed())

	pluginsDir := GinkgoT().TempDir()
	dir := filepath.Join(pluginsDir, "watcher")
	Expect(os.MkdirAll(dir, 0o700)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, plugin.ManifestFile), []byte(watcherManifest), 0o600)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "main.lua"), []byte(watcherScript), 0o600)).To(Succeed())

	funcs := hostfunc.New(capability.NewEnforcer(), hostfunc.WithGameData(data), hostfunc.WithLogger(logger))
	manager := plugin.NewManager(pluginsDir,
		plugin.WithLuaHost(pluginlua.NewHost(bus, funcs, pluginlua.WithLogger(logger))),
		plugin.WithLogger(logger),
	)
	Expect(manager.LoadAll(ctx)).To(Succeed())

	b, err := bot.New(client, bus, data, home, bot.WithLogger(logger), bot.WithTickInterval(10*time.Millisecond))
	Expect(err).NotTo(HaveOccurred())

	return &session{bot: b, transport: transport, manager: manager, reports: rep}
}

var _ = Describe("Bot session", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		s      *session
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		s = newSession(ctx)
	})

	AfterEach(func() {
		Expect(s.manager.Close(context.Background())).To(Succeed())
		cancel()
	})

	Describe("Start", func() {
		It("refreshes the player and notifies the Lua plugin", func() {
			Expect(s.manager.ListPlugins()).To(Equal([]string{"watcher"}))

			Expect(s.bot.Start(ctx)).To(Succeed())

			Expect(s.transport.Executed()).To(Equal([]state.Method{
				state.MethodGetPlayer, state.MethodGetInventory, state.MethodLevelUpRewards,
			}))
			Expect(s.reports.all()).To(ContainElement(And(
				HaveKeyWithValue("kind", "initialized"),
				HaveKeyWithValue("username", "misty"),
				HaveKeyWithValue("level", BeNumerically("==", 5)),
			)))
		})

		It("serves fresh state from the cache", func() {
			Expect(s.bot.Start(ctx)).To(Succeed())
			before := len(s.transport.History())

			store, err := s.bot.Client().Request().GetPlayer().Call(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(s.transport.History()).To(HaveLen(before))
			player, ok := store.Player()
			Expect(ok).To(BeTrue())
			Expect(player.Level).To(Equal(5))
		})
	})

	Describe("Step", func() {
		It("spins the reachable pokestop and reports it to the plugin", func() {
			Expect(s.bot.Start(ctx)).To(Succeed())

			Expect(s.bot.Step(ctx, home)).To(Succeed())

			var searches []state.Call
			for _, batch := range s.transport.History() {
				for _, c := range batch {
					if c.Method == state.MethodFortSearch {
						searches = append(searches, c)
					}
				}
			}
			Expect(searches).To(HaveLen(1))
			Expect(searches[0].Params).To(HaveKeyWithValue("fort_id", "stop-near"))

			result, ok := s.bot.Client().Store().FortSearch()
			Expect(ok).To(BeTrue())
			Expect(result.ExperienceAwarded).To(Equal(50))

			Expect(s.reports.all()).To(ContainElement(And(
				HaveKeyWithValue("kind", "arrived"),
				HaveKeyWithValue("fort_id", "stop-near"),
			)))
		})
	})

	Describe("Run", func() {
		It("keeps stepping until cancelled", func() {
			runCtx, stop := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- s.bot.Run(runCtx) }()

			Eventually(func() int {
				n := 0
				for _, m := range s.transport.Executed() {
					if m == state.MethodGetMapObjects {
						n++
					}
				}
				return n
			}).WithTimeout(5 * time.Second).Should(BeNumerically(">=", 2))

			stop()
			Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
		})
	})

	Describe("Unload", func() {
		It("stops the plugin from receiving events", func() {
			Expect(s.manager.Close(ctx)).To(Succeed())

			Expect(s.bot.Start(ctx)).To(Succeed())

			Expect(s.reports.all()).To(BeEmpty())
		})
	})
})
