// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pogobot/pogobot/internal/config"
	"github.com/pogobot/pogobot/internal/event"
	"github.com/pogobot/pogobot/internal/plugin"
	"github.com/pogobot/pogobot/internal/plugin/capability"
	"github.com/pogobot/pogobot/internal/plugin/hostfunc"
	pluginlua "github.com/pogobot/pogobot/internal/plugin/lua"
)

// PluginInfo describes a discovered plugin.
type PluginInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Type         string   `json:"type"`
	Enabled      bool     `json:"enabled"`
	Description  string   `json:"description,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

type pluginsListConfig struct {
	dir        string
	jsonOutput bool
}

// NewPluginsCmd creates the plugins command group.
func NewPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect Lua plugins",
	}
	cmd.AddCommand(newPluginsListCmd())
	cmd.AddCommand(newPluginsValidateCmd())
	return cmd
}

func newPluginsListCmd() *cobra.Command {
	cfg := &pluginsListConfig{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the plugins found in the plugin directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPluginsList(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.dir, "dir", "", "plugin directory (default: plugins.dir from the config)")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runPluginsList(cmd *cobra.Command, cfg *pluginsListConfig) error {
	path, err := resolveConfigPath()
	if err != nil {
		return oops.In("plugins").Wrapf(err, "resolve config path")
	}
	botCfg, err := config.Load(path, nil)
	if err != nil {
		return err
	}
	dir := botCfg.Plugins.Dir
	if cfg.dir != "" {
		dir = cfg.dir
	}

	discovered, err := plugin.NewManager(dir).Discover(cmd.Context())
	if err != nil {
		return err
	}
	infos := make([]PluginInfo, 0, len(discovered))
	for _, dp := range discovered {
		m := dp.Manifest
		infos = append(infos, PluginInfo{
			Name:         m.Name,
			Version:      m.Version,
			Type:         string(m.Type),
			Enabled:      botCfg.Plugins.Enabled && !slices.Contains(botCfg.Plugins.Disabled, m.Name),
			Description:  m.Description,
			Capabilities: m.Capabilities,
		})
	}
	slices.SortFunc(infos, func(a, b PluginInfo) int { return strings.Compare(a.Name, b.Name) })

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return oops.In("plugins").Wrapf(err, "marshal plugin list")
		}
		cmd.Println(string(data))
		return nil
	}
	if len(infos) == 0 {
		cmd.Printf("no plugins found in %s\n", dir)
		return nil
	}
	cmd.Print(formatPluginTable(infos))
	return nil
}

// formatPluginTable formats the plugins as a human-readable table.
func formatPluginTable(infos []PluginInfo) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "NAME\tVERSION\tSTATUS\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t-------\t------\t-----------")
	for _, info := range infos {
		status := "enabled"
		if !info.Enabled {
			status = "disabled"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Version, status, info.Description)
	}

	_ = w.Flush()
	return sb.String()
}

func newPluginsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plugin-dir>",
		Short: "Check a plugin manifest and load its script",
		Long: `Check a plugin manifest against the schema, then load the plugin into a
scratch Lua host so that syntax errors and missing capabilities surface
before the bot runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsValidate(cmd.Context(), cmd, args[0])
		},
	}
}

func runPluginsValidate(ctx context.Context, cmd *cobra.Command, dir string) error {
	manifest, err := plugin.ReadManifest(dir)
	if err != nil {
		return err
	}

	bus := event.NewBus()
	host := pluginlua.NewHost(bus, hostfunc.New(capability.NewEnforcer()))
	manager := plugin.NewManager("",
		plugin.WithLuaHost(host),
		plugin.WithBotVersion(pluginBotVersion()),
	)
	defer func() { _ = manager.Close(ctx) }()

	if err := manager.Load(ctx, &plugin.DiscoveredPlugin{Manifest: manifest, Dir: dir}); err != nil {
		return err
	}
	cmd.Printf("plugin %s %s is valid\n", manifest.Name, manifest.Version)
	return nil
}
