package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/models"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDB(db, DialectPostgres, NewPostgresErrorClassifier(), logger.Nop()), mock
}

func testPersonEntity() models.Entity {
	return models.NewEntity("person",
		models.Field{Name: "name", Type: models.Text},
		models.Field{Name: "email", Type: models.Text},
		models.Field{Name: "email_verified", Type: models.Boolean},
	)
}

const (
	insertPersonSQL = `INSERT INTO person (name,email,email_verified) VALUES ($1,$2,$3) RETURNING id`
	selectPersonSQL = `SELECT id, name, email, email_verified FROM person WHERE id = $1`
	listPersonSQL   = `SELECT id, name, email, email_verified FROM person ORDER BY id`
)

func TestEntityRepository_Insert(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())
	entity := testPersonEntity()

	mock.ExpectQuery(regexp.QuoteMeta(insertPersonSQL)).
		WithArgs("John", "j@x.com", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(selectPersonSQL)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "email_verified"}).
			AddRow(int64(1), "John", "j@x.com", true))

	rec, err := repo.Insert(context.Background(), db, entity, models.Record{
		"name":           "John",
		"email":          "j@x.com",
		"email_verified": true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), rec["id"])
	assert.Equal(t, "John", rec["name"])
	assert.Equal(t, true, rec["email_verified"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Insert_Conflict(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(insertPersonSQL)).
		WillReturnError(newUniqueViolation())

	_, err := repo.Insert(context.Background(), db, testPersonEntity(), models.Record{
		"name":           "John",
		"email":          "j@x.com",
		"email_verified": true,
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Get_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(selectPersonSQL)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), db, testPersonEntity(), 99)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_List(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(listPersonSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "email_verified"}).
			AddRow(int64(1), "John", "j@x.com", true).
			AddRow(int64(2), "Jane", "jane@x.com", false))

	records, err := repo.List(context.Background(), db, testPersonEntity())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Jane", records[1]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_List_Empty(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(listPersonSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "email_verified"}))

	records, err := repo.List(context.Background(), db, testPersonEntity())

	require.NoError(t, err)
	assert.NotNil(t, records, "an empty table must serialize as [], not null")
	assert.Len(t, records, 0)
}

func TestEntityRepository_Update_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE person SET email_verified = $1 WHERE id = $2`)).
		WithArgs(false, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), db, testPersonEntity(), 99, models.Record{"email_verified": false})

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Update_EmptyRecordIsFetch(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(selectPersonSQL)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "email_verified"}).
			AddRow(int64(1), "John", "j@x.com", true))

	rec, err := repo.Update(context.Background(), db, testPersonEntity(), 1, models.Record{})

	require.NoError(t, err)
	assert.Equal(t, "John", rec["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Delete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM person WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), db, testPersonEntity(), 1)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Delete_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM person WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), db, testPersonEntity(), 1)

	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestEntityRepository_SQLiteBuilderUsesQuestionPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqliteDB := NewDB(db, DialectSQLite, NewSQLiteErrorClassifier(), logger.Nop())
	repo := NewEntityRepository(sqliteDB, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM person WHERE id = ?`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), sqliteDB, testPersonEntity(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// errors.As must see a *pgconn.PgError for conflict classification.
func TestPostgresErrorClassifier(t *testing.T) {
	classifier := NewPostgresErrorClassifier()

	assert.True(t, classifier.IsConflict(newUniqueViolation()))
	assert.False(t, classifier.IsConflict(errors.New("connection refused")))
	assert.False(t, classifier.IsConflict(nil))
}
