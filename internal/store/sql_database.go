package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/iklobato/LightAPI/internal/logger"
)

// Dialect identifies the SQL backend behind a [DB]. The dialect decides
// placeholder style, DDL type mapping and which migration path runs at
// startup.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB wraps a database/sql connection with the backend dialect and an error
// classificator. It is shared read-only between all requests; per-request
// isolation comes from transaction scopes (see [DB.NewScope]).
type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB wraps an already opened connection. The usual entry points are
// NewConnectPostgres and NewConnectSQLite; NewDB exists for callers that
// manage the connection themselves, tests included.
func NewDB(db *sql.DB, dialect Dialect, classificator ErrorClassificator, logger *logger.Logger) *DB {
	return &DB{
		DB:                 db,
		dialect:            dialect,
		errorClassificator: classificator,
		logger:             logger,
	}
}

// Dialect returns the backend dialect of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// IsConflict reports whether err is an integrity constraint violation on
// this backend.
func (db *DB) IsConflict(err error) bool {
	return db.errorClassificator.IsConflict(err)
}

// builder returns a squirrel statement builder configured with the
// placeholder format of the backend.
func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}
