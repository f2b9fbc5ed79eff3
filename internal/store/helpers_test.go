package store

import (
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// newUniqueViolation fabricates the driver error Postgres raises on a
// uniqueness constraint breach.
func newUniqueViolation() error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
}
