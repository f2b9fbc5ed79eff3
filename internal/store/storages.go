package store

import (
	"context"
	"strings"

	"github.com/iklobato/LightAPI/internal/config"
	"github.com/iklobato/LightAPI/internal/logger"
)

// Storages aggregates the database connection and every repository the
// framework needs. Constructed once at startup and shared read-only.
type Storages struct {
	DB               *DB
	EntityRepository EntityRepository
	TokenRepository  TokenRepository
	UserRepository   UserRepository
}

// NewStorages opens the persistence backend selected by the DSN — a
// "postgres://" URI opens PostgreSQL, anything else is a SQLite file path —
// and wires all repositories on top of it.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	var db *DB
	var err error

	if isPostgresDSN(cfg.DB.DSN) {
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
	} else {
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
	}
	if err != nil {
		return nil, err
	}

	return &Storages{
		DB:               db,
		EntityRepository: NewEntityRepository(db, log),
		TokenRepository:  NewTokenRepository(db, log),
		UserRepository:   NewUserRepository(db, log),
	}, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
