// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package config loads the bot configuration from a YAML file and command
// line flags on top of built-in defaults.
package config

import (
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/behavior"
	"github.com/pogobot/pogobot/internal/bot"
	"github.com/pogobot/pogobot/internal/logging"
	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/xdg"
)

// CodeInvalidConfig marks configuration errors.
const CodeInvalidConfig = "INVALID_CONFIG"

const delim = "."

// Config is the complete bot configuration.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	API       APIConfig       `koanf:"api"`
	Bot       BotConfig       `koanf:"bot"`
	Plugins   PluginsConfig   `koanf:"plugins"`
	Behaviors behavior.Config `koanf:"behaviors"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// MetricsConfig configures the observability server. An empty address
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// APIConfig configures the call client.
type APIConfig struct {
	// Script is a YAML file of canned responses served instead of a server.
	Script        string        `koanf:"script"`
	Attempts      uint64        `koanf:"attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
	ThrottleDelay time.Duration `koanf:"throttle_delay"`
}

// BotConfig configures the session.
type BotConfig struct {
	Latitude      float64          `koanf:"latitude"`
	Longitude     float64          `koanf:"longitude"`
	Altitude      float64          `koanf:"altitude"`
	TickInterval  time.Duration    `koanf:"tick_interval"`
	ArrivalRadius float64          `koanf:"arrival_radius"`
	Waypoints     []model.Position `koanf:"waypoints"`
}

// Start returns the configured start position.
func (b BotConfig) Start() model.Position {
	return model.Position{Latitude: b.Latitude, Longitude: b.Longitude, Altitude: b.Altitude}
}

// PluginsConfig configures Lua plugin discovery.
type PluginsConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Dir      string   `koanf:"dir"`
	Disabled []string `koanf:"disabled"`
}

// Default returns the configuration used for unset keys.
func Default() Config {
	return Config{
		Log:     LogConfig{Format: logging.FormatJSON, Level: "info"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		API: APIConfig{
			Attempts:      api.DefaultAttempts,
			RetryDelay:    api.DefaultRetryDelay,
			ThrottleDelay: api.DefaultThrottleDelay,
		},
		Bot: BotConfig{
			TickInterval:  bot.DefaultTickInterval,
			ArrivalRadius: bot.DefaultArrivalRadius,
		},
		Plugins:   PluginsConfig{Enabled: true, Dir: xdg.PluginsDir()},
		Behaviors: behavior.DefaultConfig(),
	}
}

// Load reads path (skipped when empty) and then the changed flags of fs
// (skipped when nil) over Default, and validates the result.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(delim)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeInvalidConfig).
				In("config").
				With("path", path).
				Hint("check that the file exists and is valid YAML").
				Wrapf(err, "load config file")
		}
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, delim, k, flagValue(fs)), nil); err != nil {
			return nil, oops.Code(CodeInvalidConfig).In("config").Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			// Lists and maps from the file replace the defaults instead of
			// merging into them.
			ZeroFields: true,
		},
	})
	if err != nil {
		return nil, oops.Code(CodeInvalidConfig).In("config").With("path", path).Wrapf(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Log.Format != logging.FormatJSON && c.Log.Format != logging.FormatText {
		return invalid("log.format", c.Log.Format).Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level).Wrap(err)
	}
	if c.API.Attempts == 0 {
		return invalid("api.attempts", c.API.Attempts).Errorf("api.attempts must be at least 1")
	}
	if c.API.RetryDelay < 0 || c.API.ThrottleDelay < 0 {
		return invalid("api.retry_delay", c.API.RetryDelay).Errorf("api delays cannot be negative")
	}
	if err := validatePosition("bot", c.Bot.Start()); err != nil {
		return err
	}
	for i, wp := range c.Bot.Waypoints {
		if err := validatePosition("bot.waypoints."+strconv.Itoa(i), wp); err != nil {
			return err
		}
	}
	if c.Bot.TickInterval <= 0 {
		return invalid("bot.tick_interval", c.Bot.TickInterval).Errorf("bot.tick_interval must be positive")
	}
	if c.Bot.ArrivalRadius <= 0 {
		return invalid("bot.arrival_radius", c.Bot.ArrivalRadius).Errorf("bot.arrival_radius must be positive")
	}
	if c.Plugins.Enabled && c.Plugins.Dir == "" {
		return invalid("plugins.dir", "").Errorf("plugins.dir is required when plugins are enabled")
	}
	return validateBehaviors(&c.Behaviors)
}

func validatePosition(key string, p model.Position) error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return invalid(key+".latitude", p.Latitude).Errorf("latitude must be within [-90, 90]")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return invalid(key+".longitude", p.Longitude).Errorf("longitude must be within [-180, 180]")
	}
	return nil
}

func validateBehaviors(b *behavior.Config) error {
	for name, cat := range b.Recycle.Categories {
		key := "behaviors.recycle.item_filter." + name
		if cat.TotalKeep < 0 {
			return invalid(key+".total_keep", cat.TotalKeep).Errorf("total_keep cannot be negative")
		}
		for _, rule := range cat.Items {
			if rule.ItemID <= 0 {
				return invalid(key+".items", rule.ItemID).Errorf("item_id must be positive")
			}
			if rule.Keep != nil && *rule.Keep < 0 {
				return invalid(key+".items", *rule.Keep).Errorf("keep cannot be negative")
			}
		}
	}
	throw := b.Catch.Throw
	if throw.Spin < 0 || throw.Spin > 1 {
		return invalid("behaviors.catch.throw.spin", throw.Spin).Errorf("throw spin must be within [0, 1]")
	}
	switch throw.Skill {
	case "", behavior.SkillNormal, behavior.SkillBetter, behavior.SkillPerfect:
	default:
		return invalid("behaviors.catch.throw.skill", throw.Skill).
			Errorf("throw skill must be normal, better or perfect, got %q", throw.Skill)
	}
	if b.Transfer.KeepCP < 0 {
		return invalid("behaviors.transfer.keep_cp", b.Transfer.KeepCP).Errorf("keep_cp cannot be negative")
	}
	if b.Transfer.KeepPotential < 0 || b.Transfer.KeepPotential > 1 {
		return invalid("behaviors.transfer.keep_potential", b.Transfer.KeepPotential).
			Errorf("keep_potential must be within [0, 1]")
	}
	for km := range b.Incubator.Restrict {
		if _, err := strconv.Atoi(km); err != nil {
			return invalid("behaviors.incubator.restrict", km).Errorf("restrict keys must be egg distances in km, got %q", km)
		}
	}
	return nil
}

func invalid(key string, value any) oops.OopsErrorBuilder {
	return oops.Code(CodeInvalidConfig).In("config").With("key", key).With("value", value)
}
