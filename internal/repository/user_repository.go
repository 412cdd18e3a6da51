package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/rorogames/fishing-backend/internal/model"
	"github.com/rorogames/fishing-backend/internal/utils"
)

// UserRepo provides persistence for players.  It owns every statement that
// touches the users table, including the balance mutations executed inside
// fishing and purchase transactions.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, pseudo, email, password_hash, external_id, balance, created_at"

// Create inserts a user with a bcrypt-hashed password and returns the full
// record.  A duplicate pseudo yields ErrPseudoExists, whether detected by
// this statement's unique constraint or by a concurrent insert.
func (r *UserRepo) Create(ctx context.Context, pseudo, email, password string, cost int) (model.User, error) {
	pseudo = strings.TrimSpace(pseudo)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		"INSERT INTO users (pseudo, email, password_hash) VALUES ($1, NULLIF($2,''), $3) RETURNING "+userColumns,
		pseudo, strings.ToLower(strings.TrimSpace(email)), hash)
	u, err := scanUser(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return model.User{}, ErrPseudoExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByPseudo fetches a user by display name.
func (r *UserRepo) GetByPseudo(ctx context.Context, pseudo string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE pseudo = $1 LIMIT 1",
		strings.TrimSpace(pseudo))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1 LIMIT 1", id)
	return scanUser(row)
}

// FindOrCreateExternal resolves an external identity to a local account,
// creating one on first login.  The operation is idempotent: repeated calls
// with the same external id always return the same account, including when
// two first logins race (the loser of the insert re-reads the winner's row).
// When the provider's display name is already taken by a password account,
// the new account gets a suffixed pseudo derived from the external id.
func (r *UserRepo) FindOrCreateExternal(ctx context.Context, externalID, pseudo, email string) (model.User, error) {
	u, err := r.getByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}

	pseudo = strings.TrimSpace(pseudo)
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"INSERT INTO users (pseudo, email, external_id) VALUES ($1, NULLIF($2,''), $3) RETURNING "+userColumns,
		pseudo, email, externalID)
	u, err = scanUser(row)
	if err == nil {
		return u, nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "external_id") {
			// Lost a first-login race; the row now exists.
			return r.getByExternalID(ctx, externalID)
		}
		// Pseudo collision with an unrelated account.
		suffixed := fmt.Sprintf("%s#%s", pseudo, shortID(externalID))
		row = r.DB.QueryRowContext(ctx,
			"INSERT INTO users (pseudo, email, external_id) VALUES ($1, NULLIF($2,''), $3) RETURNING "+userColumns,
			suffixed, email, externalID)
		return scanUser(row)
	}
	return model.User{}, err
}

func (r *UserRepo) getByExternalID(ctx context.Context, externalID string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE external_id = $1 LIMIT 1", externalID)
	return scanUser(row)
}

// BalanceForUpdateTx reads a user's balance inside a transaction while
// taking a row lock, so that two concurrent purchases for the same user
// serialize on the balance check.
func (r *UserRepo) BalanceForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		"SELECT balance FROM users WHERE id = $1 FOR UPDATE", userID).Scan(&balance)
	return balance, err
}

// CreditTx increments a user's balance inside a transaction and returns the
// new balance.
func (r *UserRepo) CreditTx(ctx context.Context, tx *sql.Tx, userID uint64, amount int64) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		"UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance",
		amount, userID).Scan(&balance)
	return balance, err
}

// DebitTx decrements a user's balance inside a transaction.  The statement
// re-verifies sufficient funds at write time; sql.ErrNoRows means the user
// is missing or the balance dropped below the amount since it was read.
func (r *UserRepo) DebitTx(ctx context.Context, tx *sql.Tx, userID uint64, amount int64) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		"UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1 RETURNING balance",
		amount, userID).Scan(&balance)
	return balance, err
}

// scanUser maps one users row onto the model, folding nullable columns into
// empty strings.
func scanUser(row *sql.Row) (model.User, error) {
	var (
		u            model.User
		email        sql.NullString
		passwordHash sql.NullString
		externalID   sql.NullString
	)
	err := row.Scan(&u.ID, &u.Pseudo, &email, &passwordHash, &externalID, &u.Balance, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Email = email.String
	u.PasswordHash = passwordHash.String
	u.ExternalID = externalID.String
	return u, nil
}

// shortID returns the trailing characters of an external id for pseudo
// disambiguation.
func shortID(externalID string) string {
	if len(externalID) <= 6 {
		return externalID
	}
	return externalID[len(externalID)-6:]
}
