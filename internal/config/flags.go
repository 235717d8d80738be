// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package config

import (
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-format":    "log.format",
	"log-level":     "log.level",
	"metrics-addr":  "metrics.addr",
	"script":        "api.script",
	"latitude":      "bot.latitude",
	"longitude":     "bot.longitude",
	"tick-interval": "bot.tick_interval",
	"plugins-dir":   "plugins.dir",
	"no-plugins":    "plugins.enabled",
}

// RegisterFlags adds the config flags to fs with the defaults as values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("metrics-addr", d.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	fs.String("script", d.API.Script, "YAML file of canned API responses")
	fs.Float64("latitude", d.Bot.Latitude, "start latitude")
	fs.Float64("longitude", d.Bot.Longitude, "start longitude")
	fs.Duration("tick-interval", d.Bot.TickInterval, "pause between bot steps")
	fs.String("plugins-dir", d.Plugins.Dir, "Lua plugin directory")
	fs.Bool("no-plugins", false, "do not load Lua plugins")
}

// flagValue returns the posflag callback. Only flags the user set are
// loaded, so unset keys keep their file or default value.
func flagValue(fs *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		val := posflag.FlagVal(fs, f)
		if f.Name == "no-plugins" {
			disabled, _ := val.(bool)
			return key, !disabled
		}
		return key, val
	}
}
