package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/service"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/internal/utils"
	"github.com/iklobato/LightAPI/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			utils.WriteJSONError(w, "Invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrLoginAlreadyExists):
			log.Err(err).Msg("login already exists")
			utils.WriteJSONError(w, "Login already exists", http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			utils.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	token, err := h.services.AuthService.IssueToken(ctx, registeredUser.Login)
	if err != nil {
		log.Err(err).Msg("issuing of token failed")
		utils.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.Value))
	utils.WriteJSON(w, models.TokenResponse{Token: token.Value}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			utils.WriteJSONError(w, "Invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrNoUserWasFound) || errors.Is(err, service.ErrWrongPassword):
			log.Err(err).Msg("no user was found/wrong password")
			utils.WriteJSONError(w, "Invalid login/password", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user login")
			utils.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	log.Debug().Int64("id", foundUser.UserID).Str("login", foundUser.Login).Msg("user successfully logged in")

	token, err := h.services.AuthService.IssueToken(ctx, foundUser.Login)
	if err != nil {
		log.Err(err).Msg("issuing of token failed")
		utils.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.Value))
	utils.WriteJSON(w, models.TokenResponse{Token: token.Value}, http.StatusOK)
}

// revoke deletes the token presented in the Authorization header. Revoking
// a token that is already gone still answers 204: the end state is the
// same either way.
func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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

	if err = h.services.AuthService.RevokeToken(ctx, tokenValue); err != nil {
		log.Err(err).Msg("token revocation failed")
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
