// Package game implements the two engines at the heart of the backend: the
// weighted-random fishing draw and the store purchase transaction.  Both run
// their effects inside a single database transaction so that a balance is
// never observed out of step with the inventory or ownership tables.
package game

import (
	"context"
	"database/sql"

	"github.com/rorogames/fishing-backend/internal/model"
	"github.com/rorogames/fishing-backend/internal/repository"
)

// FishingEngine performs fishing attempts: one weighted draw over the fish
// catalog, then an atomic inventory append plus balance credit when a fish
// bites.
type FishingEngine struct {
	db    *sql.DB
	fish  *repository.FishRepo
	users *repository.UserRepo
	roll  RandFunc
}

// NewFishingEngine constructs a FishingEngine.  Passing a nil roll installs
// an entropy-seeded source; tests pass a fixed one.
func NewFishingEngine(db *sql.DB, fish *repository.FishRepo, users *repository.UserRepo, roll RandFunc) *FishingEngine {
	if db == nil || fish == nil || users == nil {
		panic("nil dependency passed to NewFishingEngine")
	}
	if roll == nil {
		roll = NewRand()
	}
	return &FishingEngine{db: db, fish: fish, users: users, roll: roll}
}

// CatchOutcome reports the result of one fishing attempt.  Caught is false
// when the draw landed in the catalog's remainder mass; that is a normal
// outcome, not an error.  Fish and NewBalance are only set on a catch.
type CatchOutcome struct {
	Caught     bool
	Fish       *model.FishType
	NewBalance int64
}

// AttemptCatch draws one fish (or nothing) for the user and applies the
// reward.  The catalog is read fresh on every call.  On a catch the
// inventory row and the balance credit commit together or not at all; any
// store failure rolls the attempt back with no partial state.
func (e *FishingEngine) AttemptCatch(ctx context.Context, userID uint64) (CatchOutcome, error) {
	catalog, err := e.fish.Catalog(ctx)
	if err != nil {
		return CatchOutcome{}, err
	}

	idx := pickFish(catalog, e.roll())
	if idx < 0 {
		return CatchOutcome{Caught: false}, nil
	}
	caught := catalog[idx]

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return CatchOutcome{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := e.fish.AddCatchTx(ctx, tx, userID, caught.ID); err != nil {
		return CatchOutcome{}, err
	}
	newBalance, err := e.users.CreditTx(ctx, tx, userID, caught.Reward)
	if err != nil {
		return CatchOutcome{}, err
	}
	if err := tx.Commit(); err != nil {
		return CatchOutcome{}, err
	}
	committed = true

	return CatchOutcome{Caught: true, Fish: &caught, NewBalance: newBalance}, nil
}
