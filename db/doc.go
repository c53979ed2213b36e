// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

  - poll: Poll metadata and flags
  - poll_option: Option labels with their listed order
  - vote: One ranked ballot per voter key per poll
  - vote_ranking: (option, rank) pairs of a vote, in submitted order

# Relationships

	poll 1──* poll_option
	poll 1──* vote
	vote 1──* vote_ranking

All foreign keys use ON DELETE CASCADE. The UNIQUE (poll_id, voter_key)
constraint on vote is what enforces one vote per voter.
*/
package db
