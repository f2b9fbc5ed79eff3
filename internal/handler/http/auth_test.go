package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iklobato/LightAPI/internal/service"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/internal/utils"
	"github.com/iklobato/LightAPI/models"
)

func TestRegister(t *testing.T) {
	auth := &authServiceStub{
		registerFn: func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, "u1", user.Login)
			user.UserID = 1
			return user, nil
		},
		issueFn: func(_ context.Context, ownerID string) (models.Token, error) {
			assert.Equal(t, "u1", ownerID)
			return models.Token{Value: "issued-token", OwnerID: ownerID}, nil
		},
	}
	h, _ := newTestHandler(t, nil, auth)

	rec := serve(t, h, http.MethodPost, "/auth/register", `{"login":"u1","password":"secret"}`, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Bearer issued-token", rec.Header().Get("Authorization"))

	var body models.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "issued-token", body.Token)
}

func TestRegister_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t, nil, nil)

	rec := serve(t, h, http.MethodPost, "/auth/register", `{"login":`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON was passed", decodeError(t, rec))
}

func TestRegister_InvalidData(t *testing.T) {
	auth := &authServiceStub{
		registerFn: func(context.Context, models.User) (models.User, error) {
			return models.User{}, service.ErrInvalidDataProvided
		},
	}
	h, _ := newTestHandler(t, nil, auth)

	rec := serve(t, h, http.MethodPost, "/auth/register", `{"login":"u1"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data provided", decodeError(t, rec))
}

func TestRegister_LoginTaken(t *testing.T) {
	auth := &authServiceStub{
		registerFn: func(context.Context, models.User) (models.User, error) {
			return models.User{}, store.ErrLoginAlreadyExists
		},
	}
	h, _ := newTestHandler(t, nil, auth)

	rec := serve(t, h, http.MethodPost, "/auth/register", `{"login":"u1","password":"secret"}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Login already exists", decodeError(t, rec))
}

func TestLogin(t *testing.T) {
	auth := &authServiceStub{
		loginFn: func(_ context.Context, user models.User) (models.User, error) {
			return models.User{UserID: 1, Login: user.Login}, nil
		},
		issueFn: func(_ context.Context, ownerID string) (models.Token, error) {
			return models.Token{Value: "issued-token", OwnerID: ownerID}, nil
		},
	}
	h, _ := newTestHandler(t, nil, auth)

	rec := serve(t, h, http.MethodPost, "/auth/token", `{"login":"u1","password":"secret"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer issued-token", rec.Header().Get("Authorization"))
}

func TestLogin_WrongPassword(t *testing.T) {
	auth := &authServiceStub{
		loginFn: func(context.Context, models.User) (models.User, error) {
			return models.User{}, service.ErrWrongPassword
		},
	}
	h, _ := newTestHandler(t, nil, auth)

	rec := serve(t, h, http.MethodPost, "/auth/token", `{"login":"u1","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid login/password", decodeError(t, rec))
}

func TestLogin_UnknownUser(t *testing.T) {
	auth := &authServiceStub{
		loginFn: func(context.Context, models.User) (models.User, error) {
			return models.User{}, store.ErrNoUserWasFound
		},
	}
	h, _ := newTestHandler(t, nil, auth)

	rec := serve(t, h, http.MethodPost, "/auth/token", `{"login":"ghost","password":"secret"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid login/password", decodeError(t, rec))
}

func TestRevoke(t *testing.T) {
	auth := &authServiceStub{
		revokeFn: func(_ context.Context, tokenValue string) error {
			assert.Equal(t, "issued-token", tokenValue)
			return nil
		},
	}
	h, _ := newTestHandler(t, nil, auth)

	header := http.Header{"Authorization": []string{"Bearer issued-token"}}
	rec := serve(t, h, http.MethodDelete, "/auth/token", "", header)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRevoke_BadAuthorizationHeader(t *testing.T) {
	h, _ := newTestHandler(t, nil, nil)

	for name, header := range map[string]http.Header{
		"missing":   nil,
		"malformed": {"Authorization": []string{"Bearer"}},
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, h, http.MethodDelete, "/auth/token", "", header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid or expired token", decodeError(t, rec))
		})
	}
}

func TestAuthMiddleware_ProtectedEndpoint(t *testing.T) {
	var seen models.Identity
	entities := &entityServiceStub{
		listFn: func(ctx context.Context, _ store.Querier, _ models.Entity) ([]models.Record, error) {
			identity, ok := utils.GetIdentityFromContext(ctx)
			require.True(t, ok, "identity missing from request context")
			seen = identity
			return []models.Record{}, nil
		},
	}
	auth := &authServiceStub{
		verifyFn: func(_ context.Context, tokenValue string) (models.Identity, error) {
			assert.Equal(t, "issued-token", tokenValue)
			return models.Identity{UserID: 1, Login: "u1"}, nil
		},
	}
	h, mock := newTestHandler(t, entities, auth, models.Endpoint{Entity: testPersonEntity(), RequiresAuth: true})

	mock.ExpectBegin()
	mock.ExpectCommit()

	header := http.Header{"Authorization": []string{"Bearer issued-token"}}
	rec := serve(t, h, http.MethodGet, "/person", "", header)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Identity{UserID: 1, Login: "u1"}, seen)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	h, _ := newTestHandler(t, nil, nil, models.Endpoint{Entity: testPersonEntity(), RequiresAuth: true})

	rec := serve(t, h, http.MethodGet, "/person", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeError(t, rec))
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	h, _ := newTestHandler(t, nil, nil, models.Endpoint{Entity: testPersonEntity(), RequiresAuth: true})

	header := http.Header{"Authorization": []string{"issued-token"}}
	rec := serve(t, h, http.MethodGet, "/person", "", header)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeError(t, rec))
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	auth := &authServiceStub{
		verifyFn: func(context.Context, string) (models.Identity, error) {
			return models.Identity{}, service.ErrTokenIsExpiredOrInvalid
		},
	}
	h, _ := newTestHandler(t, nil, auth, models.Endpoint{Entity: testPersonEntity(), RequiresAuth: true})

	header := http.Header{"Authorization": []string{"Bearer revoked-token"}}
	rec := serve(t, h, http.MethodGet, "/person", "", header)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeError(t, rec))
}

func TestAuthMiddleware_OpenEndpointSkipsGate(t *testing.T) {
	// no verifyFn: an open endpoint must never consult the auth service
	entities := &entityServiceStub{
		listFn: func(context.Context, store.Querier, models.Entity) ([]models.Record, error) {
			return []models.Record{}, nil
		},
	}
	h, mock := newTestHandler(t, entities, nil, models.Endpoint{Entity: testPersonEntity()})

	mock.ExpectBegin()
	mock.ExpectCommit()

	rec := serve(t, h, http.MethodGet, "/person", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
