package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/service"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/models"
)

// entityServiceStub implements service.EntityService with overridable
// functions. A method whose function is nil fails the test when called.
type entityServiceStub struct {
	t         *testing.T
	createFn  func(ctx context.Context, q store.Querier, entity models.Entity, payload models.Record) (models.Record, error)
	getFn     func(ctx context.Context, q store.Querier, entity models.Entity, id int64) (models.Record, error)
	listFn    func(ctx context.Context, q store.Querier, entity models.Entity) ([]models.Record, error)
	replaceFn func(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error)
	patchFn   func(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error)
	deleteFn  func(ctx context.Context, q store.Querier, entity models.Entity, id int64) error
}

func (s *entityServiceStub) Create(ctx context.Context, q store.Querier, entity models.Entity, payload models.Record) (models.Record, error) {
	s.t.Helper()
	require.NotNil(s.t, s.createFn, "unexpected Create call")
	return s.createFn(ctx, q, entity, payload)
}

func (s *entityServiceStub) Get(ctx context.Context, q store.Querier, entity models.Entity, id int64) (models.Record, error) {
	s.t.Helper()
	require.NotNil(s.t, s.getFn, "unexpected Get call")
	return s.getFn(ctx, q, entity, id)
}

func (s *entityServiceStub) List(ctx context.Context, q store.Querier, entity models.Entity) ([]models.Record, error) {
	s.t.Helper()
	require.NotNil(s.t, s.listFn, "unexpected List call")
	return s.listFn(ctx, q, entity)
}

func (s *entityServiceStub) Replace(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error) {
	s.t.Helper()
	require.NotNil(s.t, s.replaceFn, "unexpected Replace call")
	return s.replaceFn(ctx, q, entity, id, payload)
}

func (s *entityServiceStub) Patch(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error) {
	s.t.Helper()
	require.NotNil(s.t, s.patchFn, "unexpected Patch call")
	return s.patchFn(ctx, q, entity, id, payload)
}

func (s *entityServiceStub) Delete(ctx context.Context, q store.Querier, entity models.Entity, id int64) error {
	s.t.Helper()
	require.NotNil(s.t, s.deleteFn, "unexpected Delete call")
	return s.deleteFn(ctx, q, entity, id)
}

// authServiceStub implements service.AuthService the same way.
type authServiceStub struct {
	t          *testing.T
	registerFn func(ctx context.Context, user models.User) (models.User, error)
	loginFn    func(ctx context.Context, user models.User) (models.User, error)
	issueFn    func(ctx context.Context, ownerID string) (models.Token, error)
	verifyFn   func(ctx context.Context, tokenValue string) (models.Identity, error)
	revokeFn   func(ctx context.Context, tokenValue string) error
	sweepFn    func(ctx context.Context) (int64, error)
}

func (s *authServiceStub) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	s.t.Helper()
	require.NotNil(s.t, s.registerFn, "unexpected RegisterUser call")
	return s.registerFn(ctx, user)
}

func (s *authServiceStub) Login(ctx context.Context, user models.User) (models.User, error) {
	s.t.Helper()
	require.NotNil(s.t, s.loginFn, "unexpected Login call")
	return s.loginFn(ctx, user)
}

func (s *authServiceStub) IssueToken(ctx context.Context, ownerID string) (models.Token, error) {
	s.t.Helper()
	require.NotNil(s.t, s.issueFn, "unexpected IssueToken call")
	return s.issueFn(ctx, ownerID)
}

func (s *authServiceStub) VerifyToken(ctx context.Context, tokenValue string) (models.Identity, error) {
	s.t.Helper()
	require.NotNil(s.t, s.verifyFn, "unexpected VerifyToken call")
	return s.verifyFn(ctx, tokenValue)
}

func (s *authServiceStub) RevokeToken(ctx context.Context, tokenValue string) error {
	s.t.Helper()
	require.NotNil(s.t, s.revokeFn, "unexpected RevokeToken call")
	return s.revokeFn(ctx, tokenValue)
}

func (s *authServiceStub) SweepExpiredTokens(ctx context.Context) (int64, error) {
	s.t.Helper()
	require.NotNil(s.t, s.sweepFn, "unexpected SweepExpiredTokens call")
	return s.sweepFn(ctx)
}

func testPersonEntity() models.Entity {
	return models.NewEntity("person",
		models.Field{Name: "name", Type: models.Text},
		models.Field{Name: "email", Type: models.Text},
	)
}

// newTestHandler builds a Handler over a sqlmock-backed store and the given
// service stubs. Scope traffic (Begin, Commit, Rollback) is asserted through
// the returned sqlmock handle.
func newTestHandler(t *testing.T, entities *entityServiceStub, auth *authServiceStub, endpoints ...models.Endpoint) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if entities == nil {
		entities = &entityServiceStub{t: t}
	}
	if auth == nil {
		auth = &authServiceStub{t: t}
	}
	entities.t, auth.t = t, t

	services := &service.Services{EntityService: entities, AuthService: auth}
	storeDB := store.NewDB(db, store.DialectPostgres, store.NewPostgresErrorClassifier(), logger.Nop())

	return NewHandler(services, storeDB, endpoints, logger.Nop()), mock
}

// serve routes one request through the fully initialized router and returns
// the recorded response.
func serve(t *testing.T, h *Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	router, err := h.Init()
	require.NoError(t, err)

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reqBody)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body.Error
}
