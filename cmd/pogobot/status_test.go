// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pogobot/pogobot/internal/observability"
)

func statusServer(t *testing.T, resp observability.StatusResponse) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestQueryProcessStatus(t *testing.T) {
	addr := statusServer(t, observability.StatusResponse{
		Running:       true,
		Ready:         true,
		PID:           4242,
		UptimeSeconds: 3725,
		Version:       "1.0.0",
		Session: &observability.SessionStatus{
			Latitude: 40.5, Longitude: -73.25, Level: 7, Plugins: []string{"route-logger"},
		},
	})

	status := queryProcessStatus(addr)

	assert.Empty(t, status.Error)
	assert.True(t, status.Running)
	assert.True(t, status.Ready)
	assert.Equal(t, 4242, status.PID)
	assert.Equal(t, 7, status.Level)
	assert.Equal(t, []string{"route-logger"}, status.Plugins)

	table := formatStatusTable(status)
	assert.Contains(t, table, "running")
	assert.Contains(t, table, "1h 2m")
	assert.Contains(t, table, "40.500000,-73.250000")
	assert.Contains(t, table, "plugins: route-logger")
}

func TestQueryProcessStatus_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	status := queryProcessStatus(addr)

	assert.False(t, status.Running)
	assert.Contains(t, status.Error, "failed to connect")
	assert.Contains(t, formatStatusTable(status), "stopped")
}

func TestQueryProcessStatus_BadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	status := queryProcessStatus(strings.TrimPrefix(srv.URL, "http://"))

	assert.False(t, status.Running)
	assert.Contains(t, status.Error, "decode")
}

func TestStatusCommand_JSON(t *testing.T) {
	isolate(t)
	addr := statusServer(t, observability.StatusResponse{Running: true, PID: 7})

	out, err := execute(t, "status", "--addr", addr, "--json")

	require.NoError(t, err)
	var status ProcessStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Running)
	assert.Equal(t, 7, status.PID)
	assert.Equal(t, addr, status.Addr)
}

func TestStatusCommand_NoAddress(t *testing.T) {
	isolate(t)

	_, err := execute(t, "status", "--config", writeConfig(t, "metrics:\n  addr: \"\"\n"))

	assert.Error(t, err)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{59, "59s"},
		{60, "1m 0s"},
		{3599, "59m 59s"},
		{3600, "1h 0m"},
		{90061, "25h 1m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.seconds))
	}
}
