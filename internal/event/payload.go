// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package event

import (
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/samber/oops"

	"github.com/pogobot/pogobot/internal/model"
)

// Payload carries the arguments of one fire. Listeners read the fields they
// need and may rewrite any of them; later listeners see the rewritten values.
// Fields are addressed by their JSON names; names without a field live in Extra.
type Payload struct {
	Encounters      []model.MapPokemon `json:"encounters,omitempty"`
	Encounter       *model.MapPokemon  `json:"encounter,omitempty"`
	Pokestops       []*model.PokeStop  `json:"pokestops,omitempty"`
	Pokestop        *model.PokeStop    `json:"pokestop,omitempty"`
	Pokemon         *model.Pokemon     `json:"pokemon,omitempty"`
	TransferList    []*model.Pokemon   `json:"transfer_list,omitempty"`
	RecyclableItems map[int]int        `json:"recyclable_items,omitempty"`
	Incubator       *model.Incubator   `json:"incubator,omitempty"`
	Egg             *model.Egg         `json:"egg,omitempty"`
	Evolution       int                `json:"evolution,omitempty"`
	Level           int                `json:"level,omitempty"`
	Position        *model.Position    `json:"position,omitempty"`
	Route           []model.Position   `json:"route,omitempty"`
	Extra           map[string]any     `json:"-"`
}

var payloadFields = func() map[string]int {
	fields := make(map[string]int)
	t := reflect.TypeOf(Payload{})
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			fields[name] = i
		}
	}
	return fields
}()

// Clone returns a copy whose maps and slices are independent. The records
// the fields point to are shared.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return &Payload{}
	}
	c := *p
	c.Encounters = slices.Clone(p.Encounters)
	c.Pokestops = slices.Clone(p.Pokestops)
	c.TransferList = slices.Clone(p.TransferList)
	c.Route = slices.Clone(p.Route)
	c.Extra = maps.Clone(p.Extra)
	c.RecyclableItems = maps.Clone(p.RecyclableItems)
	return &c
}

// Get returns the value stored under name and whether it is set.
func (p *Payload) Get(name string) (any, bool) {
	if idx, ok := payloadFields[name]; ok {
		f := reflect.ValueOf(p).Elem().Field(idx)
		if f.IsZero() {
			return nil, false
		}
		return f.Interface(), true
	}
	v, ok := p.Extra[name]
	return v, ok
}

// Set stores value under name. Values for typed fields are converted through
// their JSON form when not directly assignable. A nil value clears the entry.
func (p *Payload) Set(name string, value any) error {
	idx, ok := payloadFields[name]
	if !ok {
		if value == nil {
			delete(p.Extra, name)
			return nil
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[name] = value
		return nil
	}

	field := reflect.ValueOf(p).Elem().Field(idx)
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(field.Type()) {
		field.Set(v)
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return oops.In("event").With("field", name).Wrapf(err, "encode payload field")
	}
	target := reflect.New(field.Type())
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return oops.In("event").With("field", name).Wrapf(err, "decode payload field")
	}
	field.Set(target.Elem())
	return nil
}

// Merge applies every entry of patch with Set.
func (p *Payload) Merge(patch map[string]any) error {
	for name, value := range patch {
		if err := p.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the set entries keyed by name, in their JSON form.
func (p *Payload) Fields() (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, oops.In("event").Wrapf(err, "encode payload")
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, oops.In("event").Wrapf(err, "decode payload")
	}
	for k, v := range p.Extra {
		fields[k] = v
	}
	return fields, nil
}
