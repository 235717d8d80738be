// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pogobot/pogobot/internal/plugin/capability"
	"github.com/pogobot/pogobot/pkg/errutil"
)

func TestEnforcer_Check(t *testing.T) {
	tests := []struct {
		name       string
		grants     []string
		capability string
		want       bool
	}{
		{"exact match", []string{"api.fort_search"}, "api.fort_search", true},
		{"single segment wildcard", []string{"events.fire.*"}, "events.fire.item_bag_full", true},
		{"single segment does not cross dots", []string{"events.*"}, "events.fire.item_bag_full", false},
		{"double star crosses dots", []string{"events.**"}, "events.fire.item_bag_full", true},
		{"root super-wildcard", []string{"**"}, "state.read.player", true},
		{"no match", []string{"state.read.player"}, "state.read.inventory", false},
		{"prefix is not a match", []string{"api"}, "api.get_player", false},
		{"empty grants", []string{}, "api.get_player", false},
		{"empty capability", []string{"**"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := capability.NewEnforcer()
			require.NoError(t, e.SetGrants("test-plugin", tt.grants))
			assert.Equal(t, tt.want, e.Check("test-plugin", tt.capability))
		})
	}
}

func TestEnforcer_UnknownPluginIsDenied(t *testing.T) {
	var e capability.Enforcer
	assert.False(t, e.Check("unknown", "api.get_player"))
	assert.Nil(t, e.Grants("unknown"))
}

func TestEnforcer_SetGrantsIsAtomic(t *testing.T) {
	e := capability.NewEnforcer()
	require.NoError(t, e.SetGrants("p", []string{"api.*"}))

	err := e.SetGrants("p", []string{"state.read.*", "api.[unclosed"})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, capability.CodeInvalidGrant)
	assert.Equal(t, []string{"api.*"}, e.Grants("p"), "failed update keeps previous grants")

	err = e.SetGrants("p", []string{""})
	errutil.AssertErrorCode(t, err, capability.CodeInvalidGrant)

	err = e.SetGrants("", []string{"api.*"})
	errutil.AssertErrorCode(t, err, capability.CodeInvalidGrant)
}

func TestEnforcer_GrantsReturnsCopy(t *testing.T) {
	e := capability.NewEnforcer()
	patterns := []string{"api.*"}
	require.NoError(t, e.SetGrants("p", patterns))
	patterns[0] = "**"

	got := e.Grants("p")
	got[0] = "state.read.*"
	assert.Equal(t, []string{"api.*"}, e.Grants("p"))
}

func TestEnforcer_RemoveGrants(t *testing.T) {
	e := capability.NewEnforcer()
	require.NoError(t, e.SetGrants("p", []string{"**"}))
	e.RemoveGrants("p")
	e.RemoveGrants("never-registered")
	assert.False(t, e.Check("p", "api.get_player"))
}

func TestEnforcer_Require(t *testing.T) {
	e := capability.NewEnforcer()
	require.NoError(t, e.SetGrants("p", []string{"events.listen.*"}))

	assert.NoError(t, e.Require("p", capability.Listen("pokemon_found")))

	err := e.Require("p", capability.Fire("item_bag_full"))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, capability.CodeDenied)
	errutil.AssertErrorContext(t, err, "capability", "events.fire.item_bag_full")
}

func TestCapabilityNames(t *testing.T) {
	assert.Equal(t, "events.listen.pokemon_found", capability.Listen("pokemon_found"))
	assert.Equal(t, "events.fire.route", capability.Fire("route"))
	assert.Equal(t, "api.fort_search", capability.Call("FORT_SEARCH"))
	assert.Equal(t, "state.read.worldmap", capability.ReadState("worldmap"))
}
