package model

import "time"

// User represents a player record as stored in the `users` table.  Each
// field corresponds to a column in the database.  The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// A user authenticates either with a bcrypt password hash or through an
// external identity provider; accounts created through the external flow
// have an empty PasswordHash and a non-empty ExternalID.  The balance is a
// non-negative coin amount mutated only inside fishing and purchase
// transactions.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Pseudo       – unique display name used for login.
//	Email        – optional email address (empty when not provided).
//	PasswordHash – bcrypt hashed password; empty for external-only accounts.
//	ExternalID   – stable identifier from the external identity provider; empty otherwise.
//	Balance      – coin balance, never negative.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Pseudo       string    // users.pseudo
	Email        string    // users.email (nullable)
	PasswordHash string    // users.password_hash (nullable)
	ExternalID   string    // users.external_id (nullable)
	Balance      int64     // users.balance
	CreatedAt    time.Time // users.created_at
}
