// Package repository defines error helpers that are reused across multiple
// repositories. These sentinel values allow higher layers such as the game
// engines and handlers to distinguish between different failure scenarios
// without inspecting driver error strings themselves.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrPseudoExists is returned when registering a pseudo that is already
// taken. Handlers should translate this into an HTTP 409 response.
var ErrPseudoExists = errors.New("pseudo already exists")

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505). Both the user repository (duplicate pseudo or
// external id) and the purchase engine (duplicate ownership row inserted by
// a concurrent request) rely on this signal.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
