// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
		fn    func() string
		want  string
	}{
		{"config from env", "XDG_CONFIG_HOME", "/custom/config", ConfigDir, "/custom/config/pogobot"},
		{"config default", "XDG_CONFIG_HOME", "", ConfigDir, "/home/ash/.config/pogobot"},
		{"data from env", "XDG_DATA_HOME", "/custom/data", DataDir, "/custom/data/pogobot"},
		{"data default", "XDG_DATA_HOME", "", DataDir, "/home/ash/.local/share/pogobot"},
		{"state from env", "XDG_STATE_HOME", "/custom/state", StateDir, "/custom/state/pogobot"},
		{"state default", "XDG_STATE_HOME", "", StateDir, "/home/ash/.local/state/pogobot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", "/home/ash")
			t.Setenv(tt.env, tt.value)

			assert.Equal(t, tt.want, tt.fn())
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	assert.Equal(t, "/custom/config/pogobot/config.yaml", ConfigFile())
}

func TestPluginsDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	assert.Equal(t, "/custom/data/pogobot/plugins", PluginsDir())
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestEnsureDir_Fails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.Error(t, EnsureDir(filepath.Join(file, "sub")))
}
