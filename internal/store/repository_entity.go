package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/models"
)

// entityRepository implements [EntityRepository] on top of squirrel-built
// SQL. One instance serves every registered entity: the descriptor supplies
// the table name, primary key and column set per call, and the request's
// transaction scope supplies the Querier.
type entityRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] backed by the
// provided database connection and logger.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	logger.Debug().Msg("creating entity repository")
	return &entityRepository{
		db:     db,
		logger: logger,
	}
}

// Insert persists a new row built from rec and returns the stored row with
// the server-assigned primary key. Fields absent from rec are stored as NULL.
func (r *entityRepository) Insert(ctx context.Context, q Querier, entity models.Entity, rec models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	cols := entity.Columns()
	values := make([]any, 0, len(cols))
	for _, col := range cols {
		values = append(values, rec[col])
	}

	query, args, err := r.db.builder().
		Insert(entity.Name).
		Columns(cols...).
		Values(values...).
		Suffix("RETURNING " + entity.PrimaryKey).
		ToSql()
	if err != nil {
		log.Err(err).Str("entity", entity.Name).Msg("error building insert query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	if err = q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if r.db.IsConflict(err) {
			return nil, ErrConflict
		}
		log.Err(err).Str("entity", entity.Name).Msg("error inserting entity row")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return r.Get(ctx, q, entity, id)
}

// Get fetches one row by primary key.
func (r *entityRepository) Get(ctx context.Context, q Querier, entity models.Entity, id int64) (models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.selectBuilder(entity).
		Where(sq.Eq{entity.PrimaryKey: id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("entity", entity.Name).Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := q.QueryRowContext(ctx, query, args...)
	rec, err := scanRecord(row, entity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		log.Err(err).Str("entity", entity.Name).Int64("id", id).Msg("error scanning entity row")
		return nil, err
	}

	return rec, nil
}

// List fetches every row of the entity's table.
func (r *entityRepository) List(ctx context.Context, q Querier, entity models.Entity) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.selectBuilder(entity).
		OrderBy(entity.PrimaryKey).
		ToSql()
	if err != nil {
		log.Err(err).Str("entity", entity.Name).Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("entity", entity.Name).Msg("error listing entity rows")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows, entity)
		if err != nil {
			log.Err(err).Str("entity", entity.Name).Msg("error scanning entity rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

// Update overwrites the columns present in rec for the row with the given
// primary key and returns the refreshed row. An empty rec is a no-op fetch.
func (r *entityRepository) Update(ctx context.Context, q Querier, entity models.Entity, id int64, rec models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	if len(rec) == 0 {
		return r.Get(ctx, q, entity, id)
	}

	query, args, err := r.db.builder().
		Update(entity.Name).
		SetMap(map[string]any(rec)).
		Where(sq.Eq{entity.PrimaryKey: id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("entity", entity.Name).Msg("error building update query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if r.db.IsConflict(err) {
			return nil, ErrConflict
		}
		log.Err(err).Str("entity", entity.Name).Int64("id", id).Msg("error updating entity row")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return nil, ErrItemNotFound
	}

	return r.Get(ctx, q, entity, id)
}

// Delete removes the row with the given primary key.
func (r *entityRepository) Delete(ctx context.Context, q Querier, entity models.Entity, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder().
		Delete(entity.Name).
		Where(sq.Eq{entity.PrimaryKey: id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("entity", entity.Name).Msg("error building delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("entity", entity.Name).Int64("id", id).Msg("error deleting entity row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *entityRepository) selectBuilder(entity models.Entity) sq.SelectBuilder {
	cols := append([]string{entity.PrimaryKey}, entity.Columns()...)
	return r.db.builder().Select(cols...).From(entity.Name)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row (primary key first, then declared columns) into
// a Record normalised to the entity's declared field types.
func scanRecord(row rowScanner, entity models.Entity) (models.Record, error) {
	cols := append([]string{entity.PrimaryKey}, entity.Columns()...)

	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	rec := make(models.Record, len(cols))
	for i, col := range cols {
		rec[col] = values[i]
	}

	return entity.Normalize(rec), nil
}
