// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/behavior"
	"github.com/pogobot/pogobot/internal/bot"
	"github.com/pogobot/pogobot/internal/config"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/gamedata"
	"github.com/pogobot/pogobot/internal/logging"
	"github.com/pogobot/pogobot/internal/observability"
	"github.com/pogobot/pogobot/internal/plugin"
	"github.com/pogobot/pogobot/internal/plugin/capability"
	"github.com/pogobot/pogobot/internal/plugin/hostfunc"
	pluginlua "github.com/pogobot/pogobot/internal/plugin/lua"
	"github.com/pogobot/pogobot/internal/state"
	"github.com/pogobot/pogobot/pkg/errutil"
)

// readyPriority places the readiness listener after every other
// bot_initialized listener.
const readyPriority = 1 << 20

const shutdownTimeout = 5 * time.Second

// NewRunCmd creates the run subcommand with all flags configured.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot session",
		Long: `Start the bot session: load the configuration, the built-in behaviors
and the Lua plugins, then walk the configured waypoints until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWithDeps(ctx, cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

// runWithDeps contains the run logic with injectable dependencies.
func runWithDeps(ctx context.Context, cmd *cobra.Command, deps *RunDeps) error {
	deps = deps.withDefaults()

	path, err := resolveConfigPath()
	if err != nil {
		return oops.In("run").Wrapf(err, "resolve config path")
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.Setup("pogobot", version, cfg.Log.Format, level, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	if cfg.API.Script == "" {
		return oops.Code(config.CodeInvalidConfig).
			In("run").
			With("key", "api.script").
			Errorf("no API transport configured, set api.script or --script")
	}
	transport, err := deps.TransportFactory(cfg.API.Script)
	if err != nil {
		return oops.In("run").Wrapf(err, "open transport")
	}
	data, err := deps.GameDataLoader()
	if err != nil {
		return oops.In("run").Wrapf(err, "load game data")
	}

	store := state.NewStore(state.WithLogger(logger))
	client, err := api.NewClient(transport, store,
		api.WithRetry(cfg.API.Attempts, cfg.API.RetryDelay, cfg.API.ThrottleDelay),
		api.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	bus := event.NewBus(event.WithLogger(logger))

	if err := behavior.RegisterAll(bus, behavior.Enabled(cfg.Behaviors, behavior.WithLogger(logger))...); err != nil {
		return oops.In("run").Wrapf(err, "register behaviors")
	}

	manager, err := loadPlugins(ctx, cfg, bus, data, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := manager.Close(context.Background()); closeErr != nil {
			errutil.LogError(logger, "failed to close plugins", closeErr)
		}
	}()

	b, err := bot.New(client, bus, data, cfg.Bot.Start(),
		bot.WithTickInterval(cfg.Bot.TickInterval),
		bot.WithArrivalRadius(cfg.Bot.ArrivalRadius),
		bot.WithWaypoints(cfg.Bot.Waypoints),
		bot.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	var ready atomic.Bool
	markReady := event.NewHandler("run.ready", func(context.Context, *event.Event) error {
		ready.Store(true)
		return nil
	})
	if err := bus.Register(event.BotInitialized, markReady, readyPriority); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Metrics.Addr != "" {
		obsServer := deps.ObservabilityServerFactory(cfg.Metrics.Addr, ready.Load,
			observability.WithCollectors(
				api.RegisterMetrics,
				state.RegisterMetrics,
				event.RegisterMetrics,
				bot.RegisterMetrics,
			),
			observability.WithVersion(version),
			observability.WithSessionStatus(sessionStatus(b, manager)),
			observability.WithLogger(logger),
		)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.In("run").Wrapf(err, "start observability server")
		}
		obsServer.Metrics().PluginsLoaded.Set(float64(len(manager.ListPlugins())))
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if stopErr := obsServer.Stop(shutdownCtx); stopErr != nil {
				errutil.LogError(logger, "failed to stop observability server", stopErr)
			}
		}()
	}

	logger.Info("bot starting",
		"latitude", cfg.Bot.Latitude,
		"longitude", cfg.Bot.Longitude,
		"waypoints", len(cfg.Bot.Waypoints),
		"plugins", len(manager.ListPlugins()),
	)
	if err := b.Run(ctx); err != nil {
		errutil.LogError(logger, "bot stopped", err)
		return err
	}
	logger.Info("bot stopped")
	return nil
}

// loadPlugins builds the Lua host and loads the plugin directory. With
// plugins disabled the returned manager has no host and nothing loaded.
func loadPlugins(ctx context.Context, cfg *config.Config, bus *event.Bus, data *gamedata.Data, logger *slog.Logger) (*plugin.Manager, error) {
	if !cfg.Plugins.Enabled {
		return plugin.NewManager(cfg.Plugins.Dir, plugin.WithLogger(logger)), nil
	}
	funcs := hostfunc.New(capability.NewEnforcer(),
		hostfunc.WithGameData(data),
		hostfunc.WithLogger(logger),
	)
	host := pluginlua.NewHost(bus, funcs, pluginlua.WithLogger(logger))
	manager := plugin.NewManager(cfg.Plugins.Dir,
		plugin.WithLuaHost(host),
		plugin.WithDisabled(cfg.Plugins.Disabled...),
		plugin.WithBotVersion(pluginBotVersion()),
		plugin.WithLogger(logger),
	)
	if err := manager.LoadAll(ctx); err != nil {
		_ = manager.Close(ctx)
		return nil, oops.In("run").Wrapf(err, "load plugins")
	}
	return manager, nil
}

func sessionStatus(b *bot.Bot, manager *plugin.Manager) observability.SessionStatusFunc {
	return func() *observability.SessionStatus {
		pos := b.Position()
		status := &observability.SessionStatus{
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
			Plugins:   manager.ListPlugins(),
		}
		if player, ok := b.Client().Store().Player(); ok {
			status.Level = player.Level
		}
		return status
	}
}

// monitorServerErrors watches for server errors and triggers shutdown on failure.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
