package http

import (
	"errors"
	"net/http"

	"github.com/iklobato/LightAPI/internal/service"
	"github.com/iklobato/LightAPI/internal/store"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSONBody:             http.StatusBadRequest,
	service.ErrInvalidDataProvided: http.StatusBadRequest,

	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrItemNotFound:   http.StatusNotFound,
	store.ErrNoUserWasFound: http.StatusNotFound,

	store.ErrConflict:           http.StatusConflict,
	store.ErrLoginAlreadyExists: http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// errorMessageMap holds the safe classification phrases written into
// `{"error": ...}` bodies. Raw error text never reaches the wire.
var errorMessageMap = map[error]string{
	ErrInvalidJSONBody:             "Invalid JSON was passed",
	service.ErrInvalidDataProvided: "Invalid data provided",

	service.ErrWrongPassword:           "Invalid login/password",
	service.ErrTokenIsExpiredOrInvalid: "Invalid or expired token",

	store.ErrItemNotFound:   "Item not found",
	store.ErrNoUserWasFound: "Item not found",

	store.ErrConflict:           "Conflict with existing data",
	store.ErrLoginAlreadyExists: "Login already exists",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromError(err error) string {
	for target, message := range errorMessageMap {
		if errors.Is(err, target) {
			return message
		}
	}
	return "Internal server error"
}
