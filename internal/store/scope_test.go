package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_CommitThenReleaseIsNoop(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	scope, err := db.NewScope(context.Background())
	require.NoError(t, err)

	require.NoError(t, scope.Commit())

	// Release after Commit must not roll back
	scope.Release(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScope_ReleaseRollsBackUncommitted(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	scope, err := db.NewScope(context.Background())
	require.NoError(t, err)

	scope.Release(context.Background())
	// doubled release stays safe
	scope.Release(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScope_CommitTwice(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	scope, err := db.NewScope(context.Background())
	require.NoError(t, err)

	require.NoError(t, scope.Commit())
	assert.NoError(t, scope.Commit(), "second commit is a no-op")
}

func TestNewScope_BeginFails(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin().WillReturnError(assert.AnError)

	_, err := db.NewScope(context.Background())

	assert.ErrorIs(t, err, ErrBeginningTransaction)
}
