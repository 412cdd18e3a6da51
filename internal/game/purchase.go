package game

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rorogames/fishing-backend/internal/repository"
)

// Purchase outcome errors.  Handlers translate these into 404, 400 and 409
// responses; anything else is an opaque server error.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyOwned      = errors.New("item already owned")
)

// Receipt describes a completed purchase.
type Receipt struct {
	ItemID     uint64
	Price      int64
	NewBalance int64
}

// PurchaseEngine executes store purchases as a single all-or-nothing
// transaction: price lookup, locked balance check, ownership check,
// conditional debit, ownership insert.
type PurchaseEngine struct {
	db    *sql.DB
	items *repository.ItemRepo
	users *repository.UserRepo
}

func NewPurchaseEngine(db *sql.DB, items *repository.ItemRepo, users *repository.UserRepo) *PurchaseEngine {
	if db == nil || items == nil || users == nil {
		panic("nil dependency passed to NewPurchaseEngine")
	}
	return &PurchaseEngine{db: db, items: items, users: users}
}

// Purchase buys itemID for userID.  Every rejection path returns before any
// write; every failure after the first write rolls the transaction back, so
// a debit without an ownership row (or the reverse) is never observable.
//
// The balance row is locked for the duration of the transaction and the
// debit statement re-verifies funds at write time, so two concurrent
// purchases cannot both pass the balance check and over-debit.  A duplicate
// ownership insert slipping past the pre-check under a race is caught by the
// table's primary key and reported as ErrAlreadyOwned.
func (e *PurchaseEngine) Purchase(ctx context.Context, userID, itemID uint64) (Receipt, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return Receipt{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	price, err := e.items.PriceTx(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Receipt{}, ErrItemNotFound
		}
		return Receipt{}, err
	}

	balance, err := e.users.BalanceForUpdateTx(ctx, tx, userID)
	if err != nil {
		return Receipt{}, err
	}
	if balance < price {
		return Receipt{}, ErrInsufficientFunds
	}

	owned, err := e.items.OwnedTx(ctx, tx, userID, itemID)
	if err != nil {
		return Receipt{}, err
	}
	if owned {
		return Receipt{}, ErrAlreadyOwned
	}

	newBalance, err := e.users.DebitTx(ctx, tx, userID, price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Funds were sufficient when read but not at write time.
			return Receipt{}, ErrInsufficientFunds
		}
		return Receipt{}, err
	}

	if err := e.items.GrantTx(ctx, tx, userID, itemID); err != nil {
		if repository.IsUniqueViolation(err) {
			return Receipt{}, ErrAlreadyOwned
		}
		return Receipt{}, err
	}

	if err := tx.Commit(); err != nil {
		return Receipt{}, err
	}
	committed = true

	return Receipt{ItemID: itemID, Price: price, NewBalance: newBalance}, nil
}
