// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ContestHub API server.

ContestHub is a contest-hosting platform: participants pay an entry fee to
join contests and submit tasks, contest creators manage submissions and
declare winners, and admins moderate users and contests.

# Starting the Server

The server requires environment variables or CLI flags for configuration
(a .env file is loaded if present):

	DATABASE_URL=postgres://... JWT_SECRET=... SESSION_SALT=... go run .

Or with flags:

	go run . -p 4520 -d "postgres://..." -jwt-secret ... -session-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): Secret for session token signing
  - SESSION_SALT (-session-salt): Secret for checkout session handling

Optional settings:

  - PORT (-p): Server port (default: 4520)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, contests, submissions, winners, payments, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: auth, CORS, logging, JSON helpers
  - models: Domain types, lifecycle state machine, request/response types
  - auth: Password hashing, JWT sessions, ID generation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
