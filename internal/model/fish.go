package model

import "time"

// FishType is a row of the `fish_types` catalog.  Catalog rows are reference
// data: the game reads them fresh on every cast so that reward and rarity
// tweaks take effect without a restart.  Rarity is a probability fraction in
// [0,1]; the catalog as a whole is expected to sum to at most 1, with the
// remainder being the chance of catching nothing.
//
// Fields:
//
//	ID     – primary key identifier of the fish type.
//	Name   – display name.
//	Reward – coins credited when this fish is caught.
//	Rarity – probability mass of this fish in the weighted draw.
//	Emoji  – display glyph shown by the client.
type FishType struct {
	ID     uint64  // fish_types.id
	Name   string  // fish_types.name
	Reward int64   // fish_types.reward
	Rarity float64 // fish_types.rarity
	Emoji  string  // fish_types.emoji
}

// CatchEntry is one inventory row joined with its fish type, as returned to
// the client when listing a player's catches.
type CatchEntry struct {
	FishTypeID uint64    `json:"fish_type_id"`
	Name       string    `json:"name"`
	Reward     int64     `json:"reward"`
	Emoji      string    `json:"emoji"`
	CaughtAt   time.Time `json:"caught_at"`
}
