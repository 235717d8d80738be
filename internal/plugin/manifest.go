// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package plugin discovers plugin manifests and loads them into a runtime host.
package plugin

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// CodeInvalidManifest marks a manifest that failed parsing or validation.
const CodeInvalidManifest = "INVALID_MANIFEST"

// Type identifies the plugin runtime.
type Type string

// TypeLua is the only runtime plugins can target.
const TypeLua Type = "lua"

// Manifest represents a plugin.yaml file.
type Manifest struct {
	Name        string `yaml:"name" jsonschema:"pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	Version     string `yaml:"version" jsonschema:"description=Semantic version of the plugin"`
	Type        Type   `yaml:"type" jsonschema:"enum=lua"`
	Description string `yaml:"description,omitempty"`
	// Requires is a semver constraint the bot version must satisfy.
	Requires     string     `yaml:"requires,omitempty"`
	Capabilities []string   `yaml:"capabilities,omitempty"`
	LuaPlugin    *LuaConfig `yaml:"lua-plugin,omitempty"`
}

// LuaConfig holds Lua-specific configuration.
type LuaConfig struct {
	Entry string `yaml:"entry"`
}

const maxNameLength = 64

// namePattern: lowercase letter first, then lowercase letters, digits or
// hyphens, never ending with a hyphen.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// ParseManifest parses and validates a plugin.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, invalid("").Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, invalid("").Wrapf(err, "invalid YAML")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func invalid(name string) oops.OopsErrorBuilder {
	b := oops.Code(CodeInvalidManifest).In("plugin")
	if name != "" {
		b = b.With("plugin", name)
	}
	return b
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return invalid(m.Name).Errorf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return invalid(m.Name).Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return invalid(m.Name).Errorf("version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return invalid(m.Name).With("version", m.Version).Wrapf(err, "version is not a semantic version")
	}
	if m.Requires != "" {
		if _, err := semver.NewConstraint(m.Requires); err != nil {
			return invalid(m.Name).With("requires", m.Requires).Wrapf(err, "requires is not a version constraint")
		}
	}

	if m.Type != TypeLua {
		return invalid(m.Name).Errorf("type must be 'lua', got %q", m.Type)
	}
	if m.LuaPlugin == nil {
		return invalid(m.Name).Errorf("lua-plugin is required when type is lua")
	}
	if m.LuaPlugin.Entry == "" {
		return invalid(m.Name).Errorf("lua-plugin.entry is required")
	}
	return nil
}

// Compatible reports whether the plugin accepts botVersion. A manifest
// without a requires constraint accepts every version.
func (m *Manifest) Compatible(botVersion string) (bool, error) {
	if m.Requires == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return false, invalid(m.Name).With("requires", m.Requires).Wrapf(err, "requires is not a version constraint")
	}
	v, err := semver.NewVersion(botVersion)
	if err != nil {
		return false, oops.In("plugin").With("bot_version", botVersion).Wrapf(err, "bot version is not a semantic version")
	}
	return c.Check(v), nil
}
