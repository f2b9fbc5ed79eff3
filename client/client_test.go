package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iklobato/LightAPI/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{BaseURL: srv.URL})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_Register_StoresToken(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/register", r.URL.Path)

		var user models.User
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&user))
		assert.Equal(t, "u1", user.Login)

		writeJSON(t, w, http.StatusCreated, models.TokenResponse{Token: "issued-token"})
	})

	token, err := cli.Register(context.Background(), "u1", "secret")

	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
	assert.Equal(t, "issued-token", cli.Token())
}

func TestClient_Login_AttachesTokenToLaterRequests(t *testing.T) {
	var authHeader string
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token":
			writeJSON(t, w, http.StatusOK, models.TokenResponse{Token: "issued-token"})
		case "/person":
			authHeader = r.Header.Get("Authorization")
			writeJSON(t, w, http.StatusOK, []models.Record{})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})

	_, err := cli.Login(context.Background(), "u1", "secret")
	require.NoError(t, err)

	_, err = cli.List(context.Background(), "person")
	require.NoError(t, err)
	assert.Equal(t, "Bearer issued-token", authHeader)
}

func TestClient_Login_Unauthorized(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid login/password"})
	})

	_, err := cli.Login(context.Background(), "u1", "wrong")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorContains(t, err, "Invalid login/password")
	assert.Empty(t, cli.Token())
}

func TestClient_Revoke_ForgetsToken(t *testing.T) {
	revoked := false
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/auth/token", r.URL.Path)
		assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
		revoked = true
		w.WriteHeader(http.StatusNoContent)
	})
	cli.SetToken("issued-token")

	require.NoError(t, cli.Revoke(context.Background()))
	assert.True(t, revoked)
	assert.Empty(t, cli.Token())
}

func TestClient_Revoke_WithoutTokenIsNoop(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	assert.NoError(t, cli.Revoke(context.Background()))
}

func TestClient_Create(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/person", r.URL.Path)
		writeJSON(t, w, http.StatusCreated, models.Record{"id": 1, "name": "Alice"})
	})

	record, err := cli.Create(context.Background(), "person", models.Record{"name": "Alice"})

	require.NoError(t, err)
	assert.EqualValues(t, 1, record["id"])
}

func TestClient_Get_NotFound(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/person/99", r.URL.Path)
		writeJSON(t, w, http.StatusNotFound, models.ErrorResponse{Error: "Item not found"})
	})

	_, err := cli.Get(context.Background(), "person", 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Replace(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/person/1", r.URL.Path)
		writeJSON(t, w, http.StatusOK, models.Record{"id": 1, "name": "Bob", "email": nil})
	})

	record, err := cli.Replace(context.Background(), "person", 1, models.Record{"name": "Bob"})

	require.NoError(t, err)
	assert.Nil(t, record["email"])
}

func TestClient_Patch_Conflict(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		writeJSON(t, w, http.StatusConflict, models.ErrorResponse{Error: "Conflict with existing data"})
	})

	_, err := cli.Patch(context.Background(), "person", 1, models.Record{"email": "taken@b.c"})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestClient_Delete(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/person/1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, cli.Delete(context.Background(), "person", 1))
}

func TestClient_Options(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodOptions, r.Method)
		writeJSON(t, w, http.StatusOK, models.OptionsResponse{
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         3600,
		})
	})

	descriptor, err := cli.Options(context.Background(), "person")

	require.NoError(t, err)
	assert.Equal(t, []string{"GET", "POST"}, descriptor.AllowedMethods)
	assert.Equal(t, 3600, descriptor.MaxAge)
}

func TestClient_Head(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, cli.Head(context.Background(), "person"))
}

func TestClient_BadRequestCarriesServerMessage(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON was passed"})
	})

	_, err := cli.Create(context.Background(), "person", models.Record{})

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.ErrorContains(t, err, "Invalid JSON was passed")
}
