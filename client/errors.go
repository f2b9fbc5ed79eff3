package client

import "errors"

// Sentinel errors mapped from HTTP status codes by mapHTTPError. The
// server's `{"error": ...}` message is attached as wrapping context.
var (
	// ErrBadRequest corresponds to HTTP 400: the payload could not be
	// decoded or failed validation.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized corresponds to HTTP 401: the token is missing,
	// invalid, expired or revoked.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrNotFound corresponds to HTTP 404.
	ErrNotFound = errors.New("item not found")

	// ErrConflict corresponds to HTTP 409: a uniqueness or integrity
	// constraint rejected the write.
	ErrConflict = errors.New("conflict")
)
