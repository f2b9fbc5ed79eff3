package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/iklobato/LightAPI/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/repositories_mock.go -package=mock

// Querier is the subset of database/sql operations shared by *sql.DB and
// *sql.Tx. Entity repository methods take a Querier so that request handlers
// can run them inside a per-request transaction scope while startup code
// (schema creation) runs them on the bare connection.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EntityRepository persists instances of registered entities. All methods
// are generic over the entity descriptor: the table name, primary key and
// column set come from the descriptor, never from the request.
type EntityRepository interface {
	Insert(ctx context.Context, q Querier, entity models.Entity, rec models.Record) (models.Record, error)
	Get(ctx context.Context, q Querier, entity models.Entity, id int64) (models.Record, error)
	List(ctx context.Context, q Querier, entity models.Entity) ([]models.Record, error)
	Update(ctx context.Context, q Querier, entity models.Entity, id int64, rec models.Record) (models.Record, error)
	Delete(ctx context.Context, q Querier, entity models.Entity, id int64) error
}

// TokenRepository persists issued bearer tokens. A token is valid only while
// its row exists; deleting the row is revocation.
type TokenRepository interface {
	CreateToken(ctx context.Context, token models.Token) (models.Token, error)
	FindTokenByValue(ctx context.Context, value string) (models.Token, error)
	DeleteTokenByValue(ctx context.Context, value string) error
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// UserRepository persists user accounts that tokens are issued for.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// ErrorClassificator inspects driver-level errors and recognises the
// failure classes the framework reacts to.
type ErrorClassificator interface {
	// IsConflict reports whether err is a uniqueness or other integrity
	// constraint violation.
	IsConflict(err error) bool
}
