package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/models"
)

// tokenRepository is the SQL-backed implementation of [TokenRepository].
// Token operations run directly on the shared connection: each call is a
// single statement, transactional at statement granularity, and must not
// participate in the request's entity transaction (a rolled-back request
// must not resurrect a revoked token).
type tokenRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewTokenRepository constructs a [TokenRepository] backed by the provided
// database connection and logger.
func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	logger.Debug().Msg("creating token repository")
	return &tokenRepository{
		db:     db,
		logger: logger,
	}
}

// CreateToken persists a freshly issued token record and returns it with
// the server-assigned row id.
func (r *tokenRepository) CreateToken(ctx context.Context, token models.Token) (models.Token, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createToken, token.Value, token.OwnerID, token.IssuedAt, token.ExpiresAt)
	if err := row.Scan(&token.TokenID); err != nil {
		if r.db.IsConflict(err) {
			return models.Token{}, ErrConflict
		}
		log.Err(err).Str("owner", token.OwnerID).Msg("error persisting token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return token, nil
}

// FindTokenByValue looks a token up by its signed value. Absence means the
// token was never issued or has been revoked; both map to [ErrTokenNotFound].
func (r *tokenRepository) FindTokenByValue(ctx context.Context, value string) (models.Token, error) {
	log := logger.FromContext(ctx)

	var token models.Token
	row := r.db.QueryRowContext(ctx, findTokenByValue, value)
	if err := row.Scan(&token.TokenID, &token.Value, &token.OwnerID, &token.IssuedAt, &token.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Token{}, ErrTokenNotFound
		}
		log.Err(err).Msg("error scanning token row")
		return models.Token{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return token, nil
}

// DeleteTokenByValue removes the token row, revoking the token. Deleting a
// token that does not exist is not an error: revocation is idempotent.
func (r *tokenRepository) DeleteTokenByValue(ctx context.Context, value string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteTokenByValue, value); err != nil {
		log.Err(err).Msg("error deleting token")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteExpiredTokens removes every token whose expiry is at or before now
// and reports how many rows were reclaimed. Expired tokens are already
// unverifiable; this only keeps the table from growing without bound.
func (r *tokenRepository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredTokens, now)
	if err != nil {
		log.Err(err).Msg("error sweeping expired tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected, nil
}
