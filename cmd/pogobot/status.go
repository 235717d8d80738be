// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pogobot/pogobot/internal/config"
	"github.com/pogobot/pogobot/internal/observability"
)

// ProcessStatus holds the status information for a running bot.
type ProcessStatus struct {
	Addr          string   `json:"addr"`
	Running       bool     `json:"running"`
	Ready         bool     `json:"ready"`
	PID           int      `json:"pid,omitempty"`
	UptimeSeconds int64    `json:"uptime_seconds,omitempty"`
	Version       string   `json:"version,omitempty"`
	Level         int      `json:"level,omitempty"`
	Latitude      float64  `json:"latitude,omitempty"`
	Longitude     float64  `json:"longitude,omitempty"`
	Plugins       []string `json:"plugins,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	addr       string
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand with all flags configured.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running bot",
		Long:  `Query the observability endpoint of a running bot for its health and session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", "", "observability address (default: metrics.addr from the config)")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	addr := cfg.addr
	if addr == "" {
		path, err := resolveConfigPath()
		if err != nil {
			return oops.In("status").Wrapf(err, "resolve config path")
		}
		botCfg, err := config.Load(path, nil)
		if err != nil {
			return err
		}
		addr = botCfg.Metrics.Addr
	}
	if addr == "" {
		return oops.In("status").Errorf("no observability address configured, pass --addr")
	}

	status := queryProcessStatus(addr)

	if cfg.jsonOutput {
		output, err := formatStatusJSON(status)
		if err != nil {
			return err
		}
		cmd.Println(output)
		return nil
	}
	cmd.Print(formatStatusTable(status))
	return nil
}

// queryProcessStatus queries the /status endpoint of a bot.
func queryProcessStatus(addr string) ProcessStatus {
	status := ProcessStatus{Addr: addr}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/status") //nolint:noctx // short-lived CLI request
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return status
	}

	var remote observability.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		status.Error = fmt.Sprintf("failed to decode status response: %v", err)
		return status
	}

	status.Running = remote.Running
	status.Ready = remote.Ready
	status.PID = remote.PID
	status.UptimeSeconds = remote.UptimeSeconds
	status.Version = remote.Version
	if s := remote.Session; s != nil {
		status.Level = s.Level
		status.Latitude = s.Latitude
		status.Longitude = s.Longitude
		status.Plugins = s.Plugins
	}
	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(status ProcessStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ADDR\tSTATUS\tREADY\tPID\tUPTIME\tLEVEL\tPOSITION")
	_, _ = fmt.Fprintln(w, "----\t------\t-----\t---\t------\t-----\t--------")

	if status.Running {
		_, _ = fmt.Fprintf(w, "%s\trunning\t%t\t%d\t%s\t%d\t%.6f,%.6f\n",
			status.Addr, status.Ready, status.PID, formatUptime(status.UptimeSeconds),
			status.Level, status.Latitude, status.Longitude)
	} else {
		reason := "not running"
		if status.Error != "" {
			reason = status.Error
		}
		_, _ = fmt.Fprintf(w, "%s\tstopped\t-\t-\t-\t-\t%s\n", status.Addr, reason)
	}
	_ = w.Flush()

	if len(status.Plugins) > 0 {
		sb.WriteString("\nplugins: " + strings.Join(status.Plugins, ", ") + "\n")
	}
	return sb.String()
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(status ProcessStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", oops.In("status").Wrapf(err, "marshal status")
	}
	return string(data), nil
}

// formatUptime formats seconds into a human-readable duration.
func formatUptime(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
