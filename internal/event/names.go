// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package event

// Event names fired by the bot and the built-in behaviors.
const (
	BotInitialized     = "bot_initialized"
	PokemonFound       = "pokemon_found"
	LurePokemonFound   = "lure_pokemon_found"
	PokestopsFound     = "pokestops_found"
	PokestopArrived    = "pokestop_arrived"
	PokemonCaught      = "pokemon_caught"
	PokemonFled        = "pokemon_fled"
	PokemonCatchFailed = "pokemon_catch_failed"
	PokemonBagFull     = "pokemon_bag_full"
	ItemBagFull        = "item_bag_full"
	NoBalls            = "no_balls"
	TransferPokemon    = "transfer_pokemon"
	PokemonEvolved     = "pokemon_evolved"
	IncubateEgg        = "incubate_egg"
	WalkingStarted     = "walking_started"
	WalkingFinished    = "walking_finished"
	PositionUpdated    = "position_updated"
	Route              = "route"
	PlayerLevelUp      = "player_level_up"
)

// Known returns every event name fired by the bot.
func Known() []string {
	return []string{
		BotInitialized, PokemonFound, LurePokemonFound, PokestopsFound, PokestopArrived,
		PokemonCaught, PokemonFled, PokemonCatchFailed, PokemonBagFull, ItemBagFull,
		NoBalls, TransferPokemon, PokemonEvolved, IncubateEgg, WalkingStarted,
		WalkingFinished, PositionUpdated, Route, PlayerLevelUp,
	}
}
