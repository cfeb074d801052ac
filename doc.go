// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs a single administered election: an allow-list of voters,
a catalog of candidates, a timed voting window that can be reopened for
further rounds, vote delegation with loop detection, and per-round results.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:elect.db ADMIN_ID=admin ACCESS_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin admin -key-salt ...

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_ID (-admin): Administrator identity
  - ACCESS_KEY_SALT (-key-salt): Secret for access key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

The administrator's access key is logged once at startup.

# Logging

Logs are written to stderr with log/slog: text when stderr is a terminal,
JSON otherwise.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - election: The election state machine and its rules
  - db: Schema creation and the SQL-backed election store
  - handlers: HTTP request handlers (admin, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request ids, JSON helpers
  - models: Domain, request and response types
  - auth: Access key generation and validation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
