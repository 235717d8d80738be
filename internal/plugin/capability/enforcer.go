// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package capability decides which bot surfaces a plugin may touch.
//
// Capabilities are dotted names:
//   - events.listen.<event> registers a listener for <event>
//   - events.fire.<event> fires <event> from a listener
//   - api.<method> queues an API call, method in lower case
//   - state.read.<key> reads a state store key
//
// Grants are gobwas/glob patterns with '.' as the segment separator:
// '*' matches one segment and '**' matches any number of segments.
package capability

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Error codes.
const (
	CodeDenied       = "CAPABILITY_DENIED"
	CodeInvalidGrant = "INVALID_GRANT"
)

// Listen returns the capability needed to listen to an event.
func Listen(eventName string) string { return "events.listen." + eventName }

// Fire returns the capability needed to fire an event.
func Fire(eventName string) string { return "events.fire." + eventName }

// Call returns the capability needed to issue an API method.
func Call(method string) string { return "api." + strings.ToLower(method) }

// ReadState returns the capability needed to read a state key.
func ReadState(key string) string { return "state.read." + key }

type compiledGrant struct {
	pattern string
	glob    glob.Glob
}

// Enforcer checks plugin capabilities at runtime. The zero value is ready
// to use and denies everything.
type Enforcer struct {
	grants map[string][]compiledGrant
	mu     sync.RWMutex
}

// NewEnforcer creates a capability enforcer.
func NewEnforcer() *Enforcer {
	return &Enforcer{grants: make(map[string][]compiledGrant)}
}

// SetGrants replaces the grants of a plugin. Either every pattern compiles
// and all are installed, or none are.
func (e *Enforcer) SetGrants(plugin string, patterns []string) error {
	if plugin == "" {
		return oops.Code(CodeInvalidGrant).In("capability").Errorf("plugin name cannot be empty")
	}

	compiled := make([]compiledGrant, len(patterns))
	for i, pattern := range patterns {
		if pattern == "" {
			return oops.Code(CodeInvalidGrant).
				In("capability").
				With("plugin", plugin).
				With("index", i).
				Errorf("empty capability pattern")
		}
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return oops.Code(CodeInvalidGrant).
				In("capability").
				With("plugin", plugin).
				With("pattern", pattern).
				Wrapf(err, "compile capability pattern")
		}
		compiled[i] = compiledGrant{pattern: pattern, glob: g}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grants == nil {
		e.grants = make(map[string][]compiledGrant)
	}
	e.grants[plugin] = compiled
	return nil
}

// RemoveGrants forgets a plugin. Unknown plugins are ignored.
func (e *Enforcer) RemoveGrants(plugin string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.grants, plugin)
}

// Grants returns a copy of the patterns granted to a plugin, nil when the
// plugin is unknown.
func (e *Enforcer) Grants(plugin string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	grants, ok := e.grants[plugin]
	if !ok {
		return nil
	}
	patterns := make([]string, len(grants))
	for i, g := range grants {
		patterns[i] = g.pattern
	}
	return patterns
}

// Check reports whether plugin holds capability. Unknown plugins and empty
// capabilities are denied.
func (e *Enforcer) Check(plugin, capability string) bool {
	if capability == "" {
		return false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, grant := range e.grants[plugin] {
		if grant.glob.Match(capability) {
			return true
		}
	}
	return false
}

// Require is Check returning a CAPABILITY_DENIED error on refusal.
func (e *Enforcer) Require(plugin, capability string) error {
	if e.Check(plugin, capability) {
		return nil
	}
	return oops.Code(CodeDenied).
		In("capability").
		With("plugin", plugin).
		With("capability", capability).
		Hint("add the capability to the plugin manifest").
		Errorf("capability denied: %s requires %s", plugin, capability)
}
