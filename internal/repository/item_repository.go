package repository

import (
	"context"
	"database/sql"

	"github.com/rorogames/fishing-backend/internal/model"
)

// ItemRepo provides access to the store catalog and per-user ownership rows.
type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

// Catalog returns every item type ordered by ascending price.
func (r *ItemRepo) Catalog(ctx context.Context) ([]model.ItemType, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, price FROM item_types ORDER BY price ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.ItemType, 0)
	for rows.Next() {
		var it model.ItemType
		if err := rows.Scan(&it.ID, &it.Name, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// PriceTx reads an item's price within a transaction.  sql.ErrNoRows means
// the item does not exist in the catalog.
func (r *ItemRepo) PriceTx(ctx context.Context, tx *sql.Tx, itemID uint64) (int64, error) {
	var price int64
	err := tx.QueryRowContext(ctx,
		"SELECT price FROM item_types WHERE id = $1", itemID).Scan(&price)
	return price, err
}

// OwnedTx reports within a transaction whether the user already owns the
// item.
func (r *ItemRepo) OwnedTx(ctx context.Context, tx *sql.Tx, userID, itemID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM user_items WHERE user_id = $1 AND item_type_id = $2", userID, itemID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GrantTx inserts an ownership row within a transaction.  The table's
// primary key rejects a duplicate (user, item) pair even when two purchases
// race past the OwnedTx check; callers detect that with IsUniqueViolation.
func (r *ItemRepo) GrantTx(ctx context.Context, tx *sql.Tx, userID, itemID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO user_items (user_id, item_type_id) VALUES ($1, $2)",
		userID, itemID)
	return err
}
