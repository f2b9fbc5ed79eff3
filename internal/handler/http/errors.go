// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The LightAPI Authors

package http

import "errors"

// Sentinel errors of the HTTP layer. Route compilation errors are fatal:
// they are returned before the server starts listening and abort startup.
// Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidJSONBody marks a request body that could not be decoded as a
	// JSON object. Translated to HTTP 400.
	ErrInvalidJSONBody = errors.New("invalid JSON body")

	// ErrMissingOperation is a route compilation error: an endpoint's
	// effective verb set names a verb with no operation bound to it.
	ErrMissingOperation = errors.New("no operation bound for verb")

	// ErrDuplicateEndpoint is a route compilation error: two registered
	// endpoints share the same entity name and would produce colliding
	// route patterns.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint")
)
