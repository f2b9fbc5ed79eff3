package http

import (
	"context"
	"net/http"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/utils"
)

// auth is the HTTP middleware form of the authentication gate.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// token, validates it via [service.AuthService.VerifyToken], and on success
// stores the resolved identity in the request context under
// [utils.IdentityCtxKey] before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized when:
//   - the "Authorization" header is absent ([ErrEmptyAuthorizationHeader]);
//   - the header value cannot be parsed as a bearer token;
//   - the token fails verification for any reason: bad signature, expired,
//     revoked, or never issued.
//
// All rejection bodies carry the same classification phrase. A caller can
// never tell which verification step failed.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		tokenValue, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		identity, err := h.services.AuthService.VerifyToken(ctx, tokenValue)
		if err != nil {
			log.Err(err).Msg("token verification failed")
			utils.WriteJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		// Store the resolved identity in the context so that downstream
		// handlers can retrieve it without re-verifying the token.
		ctx = context.WithValue(ctx, utils.IdentityCtxKey, identity)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
