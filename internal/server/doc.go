// Package server runs the framework's HTTP transport.
//
// It owns the server lifecycle: startup, OS signal handling, and graceful
// shutdown. Route compilation happens before the listener opens, so a
// structurally broken registration never starts serving traffic.
package server
