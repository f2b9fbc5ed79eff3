// Package http implements the HTTP transport layer of the framework.
//
// It compiles registered entity endpoints into concrete routes, generates
// the CRUD handlers behind them, and exposes the token lifecycle endpoints.
// Cross-cutting concerns such as authentication, request tracing, access
// logging and response compression are handled in this package before
// requests are delegated to the service layer.
package http
