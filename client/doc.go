// Package client provides a typed HTTP client for LightAPI servers.
//
// It wraps the generated CRUD endpoints and the token lifecycle endpoints
// behind Go methods, manages the bearer token across requests, and maps
// HTTP error responses to the sentinel values defined in errors.go so that
// callers can use [errors.Is] for transport-agnostic error handling.
package client
