// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package state

import (
	"slices"

	"github.com/pogobot/pogobot/internal/model"
)

// parseFunc turns one response into state updates. Called with mu held.
type parseFunc func(s *Store, raw model.Raw)

var parsers = map[string]parseFunc{
	string(MethodGetPlayer):            parsePlayer,
	string(MethodGetInventory):         parseInventory,
	string(MethodGetMapObjects):        parseMap,
	string(MethodEncounter):            parseEncounter,
	string(MethodDiskEncounter):        parseEncounter,
	string(MethodCatchPokemon):         parseCatch,
	string(MethodFortDetails):          parseFortDetails,
	string(MethodFortSearch):           parseFortSearch,
	string(MethodEvolvePokemon):        parseEvolution,
	string(MethodUseItemEggIncubator):  parseIncubatorUse,
	string(MethodLevelUpRewards):       parseLevelUpRewards,
	string(MethodReleasePokemon):       parseNothing,
	string(MethodPlayerUpdate):         parseNothing,
	string(MethodRecycleInventoryItem): parseNothing,
	string(MethodCheckAwardedBadges):   parseNothing,
	string(MethodDownloadSettings):     parseNothing,
	string(MethodGetHatchedEggs):       parseNothing,
}

// Handle routes one response to its parser, which updates the store and
// marks the written keys fresh. Unknown response keys are logged and skipped.
func (s *Store) Handle(responseKey string, raw model.Raw) {
	parse, ok := parsers[responseKey]
	if !ok {
		UnhandledResponses.WithLabelValues(responseKey).Inc()
		s.logger.Warn("unimplemented response", "key", responseKey)
		return
	}
	if raw == nil {
		raw = model.Raw{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	parse(s, raw)
}

// HasParser reports whether a response key is understood.
func HasParser(responseKey string) bool {
	_, ok := parsers[responseKey]
	return ok
}

func parseNothing(*Store, model.Raw) {}

func parsePlayer(s *Store, raw model.Raw) {
	player := s.currentPlayer().Clone()
	player.ApplyProfile(raw)
	s.markFresh(KeyPlayer, player)
}

func parseInventory(s *Store, raw model.Raw) {
	inv, _ := s.values[KeyInventory].(*model.Inventory)
	inv = inv.Clone()
	result := inv.ApplyDelta(raw)
	for _, kind := range result.UnknownDeletions {
		s.logger.Error("unrecognized inventory deletion", "kind", kind)
	}

	player := s.currentPlayer().Clone()
	if result.PlayerStats != nil {
		player.ApplyStats(result.PlayerStats)
	}

	s.markFresh(KeyPlayer, player)
	s.markFresh(KeyInventory, inv)
	s.markFresh(KeyPokemon, slices.Clone(inv.Pokemon))
	s.markFresh(KeyPokedex, inv.Pokedex)
	s.markFresh(KeyCandy, inv.Candy)
	s.markFresh(KeyEggs, slices.Clone(inv.Eggs))
	s.markFresh(KeyEggIncubators, slices.Clone(inv.Incubators))
}

func parseMap(s *Store, raw model.Raw) {
	s.markFresh(KeyWorldMap, model.NewWorldMap(raw))
}

func parseEncounter(s *Store, raw model.Raw) {
	enc := s.currentEncounter().Clone()
	enc.ApplyEncounter(raw)
	s.markFresh(KeyEncounter, enc)
}

func parseCatch(s *Store, raw model.Raw) {
	enc := s.currentEncounter().Clone()
	enc.ApplyCatch(raw)
	s.markFresh(KeyEncounter, enc)
}

func parseFortDetails(s *Store, raw model.Raw) {
	s.markFresh(KeyFort, model.ParseFortDetail(raw))
}

func parseFortSearch(s *Store, raw model.Raw) {
	s.markFresh(KeyFortSearch, model.NewFortSearchResult(raw))
}

func parseEvolution(s *Store, raw model.Raw) {
	s.markFresh(KeyEvolution, model.NewEvolutionResult(raw))
}

func parseLevelUpRewards(s *Store, raw model.Raw) {
	s.markFresh(KeyLevelUpRewards, model.NewLevelUpRewards(raw))
}

// parseIncubatorUse replaces the incubator with the returned id, both in the
// incubator list and in the cached inventory, so a later inventory delta
// without incubators keeps it. The lists are left unchanged when no
// incubator matches. The inventory keeps its freshness.
func parseIncubatorUse(s *Store, raw model.Raw) {
	current, _ := s.values[KeyEggIncubators].([]*model.Incubator)
	if !raw.Has("egg_incubator") {
		s.markFresh(KeyEggIncubators, slices.Clone(current))
		return
	}
	incubator := model.NewIncubator(raw.Map("egg_incubator"))
	s.markFresh(KeyEggIncubators, replaceIncubator(current, incubator))

	if inv, ok := s.values[KeyInventory].(*model.Inventory); ok {
		inv = inv.Clone()
		inv.Incubators = replaceIncubator(inv.Incubators, incubator)
		s.values[KeyInventory] = inv
	}
}

func replaceIncubator(list []*model.Incubator, incubator *model.Incubator) []*model.Incubator {
	updated := slices.Clone(list)
	for i, existing := range updated {
		if existing.UniqueID == incubator.UniqueID {
			updated[i] = incubator
		}
	}
	return updated
}

func (s *Store) currentPlayer() *model.Player {
	p, ok := s.values[KeyPlayer].(*model.Player)
	if !ok {
		return model.NewPlayer()
	}
	return p
}

func (s *Store) currentEncounter() *model.Encounter {
	e, ok := s.values[KeyEncounter].(*model.Encounter)
	if !ok {
		return model.NewEncounter()
	}
	return e
}
