// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Rank API server.

Quickly Rank is a ranked-choice polling service. Voters order the options,
and results are tabulated with instant-runoff voting (IRV), round by round.

# Starting the Server

Only the admin salt is required. Without a database URL polls live in memory:

	ADMIN_KEY_SALT=dev go run .

With SQLite or PostgreSQL:

	go run . -p 3318 -t sqlite -d "file:quickly-rank.db"
	go run . -t postgres -d "postgres://..."

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): Connection string; empty selects in-memory storage
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite when a URL is set)
  - IP_HASH_SALT (-ip-salt): Salt for voter address hashing (default: admin salt)
  - BASE_URL (-base-url): Prefix for share links
  - TRUST_PROXY (-trust-proxy): Take voter addresses from X-Forwarded-For or
    X-Real-IP. Only set this behind a proxy that overwrites those headers.

# Architecture

  - irv: Instant-runoff tabulation
  - results: CSV export and summaries
  - handlers: HTTP request handlers (polls, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - store: Poll and vote repositories (memory, SQLite, PostgreSQL)
  - models: Request/response types
  - auth: ID generation, admin keys, address hashing
  - db: Schema creation
  - cliparse: Configuration parsing

The cmd/irvtally command tabulates YAML ballot files offline.
*/
package main
