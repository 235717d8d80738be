// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/pogobot/pogobot/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the PoGoBot CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pogobot",
		Short: "PoGoBot - an event-driven Pokemon GO bot",
		Long: `PoGoBot walks a route, reacts to what it finds through a priority
event bus and batches its API calls behind a staleness-aware cache.
Behaviors are built in or written as Lua plugins.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/pogobot/config.yaml)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewPluginsCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// resolveConfigPath returns the --config value, or the XDG config file when
// it exists, or "" to run on defaults.
func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	path := xdg.ConfigFile()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

// pluginBotVersion returns the version plugins are checked against, or ""
// for development builds so requires constraints are not enforced.
func pluginBotVersion() string {
	if _, err := semver.NewVersion(version); err != nil {
		return ""
	}
	return version
}
