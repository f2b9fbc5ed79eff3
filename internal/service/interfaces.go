package service

import (
	"context"

	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/models"
)

// EntityService orchestrates the persistence calls behind the generated
// CRUD operations. Every method runs against the caller-supplied Querier so
// that the dispatcher can scope each request to its own transaction.
type EntityService interface {
	Create(ctx context.Context, q store.Querier, entity models.Entity, payload models.Record) (models.Record, error)
	Get(ctx context.Context, q store.Querier, entity models.Entity, id int64) (models.Record, error)
	List(ctx context.Context, q store.Querier, entity models.Entity) ([]models.Record, error)
	Replace(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error)
	Patch(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error)
	Delete(ctx context.Context, q store.Querier, entity models.Entity, id int64) error
}

// AuthService is the authentication gate: account registration, credential
// checks and the full bearer token lifecycle (issue, verify, revoke).
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	IssueToken(ctx context.Context, ownerID string) (models.Token, error)
	VerifyToken(ctx context.Context, tokenValue string) (models.Identity, error)
	RevokeToken(ctx context.Context, tokenValue string) error
	SweepExpiredTokens(ctx context.Context) (int64, error)
}
