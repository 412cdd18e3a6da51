package repository

import (
	"context"
	"database/sql"

	"github.com/rorogames/fishing-backend/internal/model"
)

// FishRepo provides access to the fish catalog and the append-only inventory
// of catches.
type FishRepo struct{ DB *sql.DB }

func NewFishRepo(db *sql.DB) *FishRepo { return &FishRepo{DB: db} }

// Catalog returns every fish type ordered by id.  The fixed order makes the
// weighted draw reproducible for a given random sample; the catalog is read
// fresh on every call because rewards and rarities are tunable reference
// data.
func (r *FishRepo) Catalog(ctx context.Context) ([]model.FishType, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, reward, rarity, emoji FROM fish_types ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var catalog []model.FishType
	for rows.Next() {
		var f model.FishType
		if err := rows.Scan(&f.ID, &f.Name, &f.Reward, &f.Rarity, &f.Emoji); err != nil {
			return nil, err
		}
		catalog = append(catalog, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// AddCatchTx appends one inventory row within the scope of an existing
// transaction.  The caller must commit or rollback; the capture timestamp is
// assigned by the database.
func (r *FishRepo) AddCatchTx(ctx context.Context, tx *sql.Tx, userID, fishTypeID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO inventory (user_id, fish_type_id) VALUES ($1, $2)",
		userID, fishTypeID)
	return err
}

// ListInventory returns a user's catches joined with their fish types,
// newest first.
func (r *FishRepo) ListInventory(ctx context.Context, userID uint64) ([]model.CatchEntry, error) {
	const q = `SELECT i.fish_type_id, ft.name, ft.reward, ft.emoji, i.caught_at
	           FROM inventory i
	           JOIN fish_types ft ON ft.id = i.fish_type_id
	           WHERE i.user_id = $1
	           ORDER BY i.caught_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.CatchEntry, 0)
	for rows.Next() {
		var e model.CatchEntry
		if err := rows.Scan(&e.FishTypeID, &e.Name, &e.Reward, &e.Emoji, &e.CaughtAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
