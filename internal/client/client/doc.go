// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the Remote Entry Store (see the
//     Client interface): List, Create, Delete and Ping.
//  2. A REST implementation (see RESTClient) built on resty. Each data call
//     obtains a bearer token from a TokenSource first; without one it fails
//     with ErrNotSignedIn and nothing is sent.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens the
//     SQLite store and applies embedded goose migrations.
//
// # Error Handling
//
// HTTP failures are mapped to sentinel errors matched with errors.Is:
// ErrUnavailable (network, 5xx), ErrUnauthorized (401, 403), ErrNotFound
// (404). Other unexpected statuses come back as *StatusError.
package client
