// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package api

import (
	"context"
	"os"
	"sync"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

// Script is the YAML layout of a scripted session:
//
//	responses:
//	  GET_PLAYER:
//	    - player_data: {username: ash}
//
// Each method maps to a queue of payloads. Payloads are consumed in order and
// the last one repeats once the queue is drained.
type Script struct {
	Responses map[string][]map[string]any `yaml:"responses"`
}

// ScriptTransport replays canned responses. It serves offline runs and tests.
type ScriptTransport struct {
	mu        sync.Mutex
	responses map[string][]model.Raw
	history   [][]state.Call
}

// NewScriptTransport creates a transport from per-method response queues.
func NewScriptTransport(responses map[string][]model.Raw) *ScriptTransport {
	t := &ScriptTransport{responses: make(map[string][]model.Raw, len(responses))}
	for method, queue := range responses {
		t.responses[method] = append([]model.Raw(nil), queue...)
	}
	return t
}

// LoadScript reads a YAML script file.
func LoadScript(path string) (*ScriptTransport, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, oops.In("api").With("path", path).Wrapf(err, "read script")
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, oops.In("api").With("path", path).Wrapf(err, "parse script")
	}
	responses := make(map[string][]model.Raw, len(script.Responses))
	for method, queue := range script.Responses {
		for _, payload := range queue {
			responses[method] = append(responses[method], model.Raw(payload))
		}
	}
	return NewScriptTransport(responses), nil
}

// Execute implements Transport.
func (t *ScriptTransport) Execute(_ context.Context, calls []state.Call) (*Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, append([]state.Call(nil), calls...))
	resp := &Response{StatusCode: StatusOK, Responses: make(map[string]model.Raw, len(calls))}
	for _, c := range calls {
		method := string(c.Method)
		queue := t.responses[method]
		if len(queue) == 0 {
			continue
		}
		resp.Responses[method] = queue[0]
		if len(queue) > 1 {
			t.responses[method] = queue[1:]
		}
	}
	return resp, nil
}

// History returns every batch executed so far.
func (t *ScriptTransport) History() [][]state.Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]state.Call, len(t.history))
	copy(out, t.history)
	return out
}

// Executed returns the methods executed so far, flattened in order.
func (t *ScriptTransport) Executed() []state.Method {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []state.Method
	for _, batch := range t.history {
		for _, c := range batch {
			out = append(out, c.Method)
		}
	}
	return out
}
