// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/db"
	"github.com/danielhkuo/quickly-rank/models"
)

var (
	ErrPollNotFound = errors.New("poll not found")
	ErrAlreadyVoted = errors.New("voter has already voted in this poll")
	ErrEditsLocked  = errors.New("poll has votes and does not allow edits")
)

// PollRepository persists polls and their option lists. UpdatePoll returns
// ErrEditsLocked when the stored poll has votes and does not allow edits,
// checked atomically with the write.
type PollRepository interface {
	CreatePoll(ctx context.Context, poll models.Poll) error
	GetPoll(ctx context.Context, id string) (models.Poll, error)
	UpdatePoll(ctx context.Context, poll models.Poll) error
	ClosePoll(ctx context.Context, id string) error
}

// VoteRepository persists ballots. CreateVote must reject a second vote with
// the same voter key for a poll with ErrAlreadyVoted, atomically.
type VoteRepository interface {
	CreateVote(ctx context.Context, vote models.Vote) error
	GetVotesByPollID(ctx context.Context, pollID string) ([]models.Vote, error)
	HasVoted(ctx context.Context, pollID, voterKey string) (bool, error)
	CountVotes(ctx context.Context, pollID string) (int, error)
}

// Store is a complete storage backend
type Store interface {
	PollRepository
	VoteRepository
}

// Open returns the backend selected by cfg plus a function that releases it.
// SQL backends are pinged and have their schema created.
func Open(cfg cliparse.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	var driver string
	switch cfg.DatabaseType {
	case cliparse.DatabaseMemory, "":
		slog.Info("using in-memory storage")
		return NewMemoryStore(), noop, nil
	case cliparse.DatabaseSQLite:
		driver = "sqlite"
	case cliparse.DatabasePostgres:
		driver = "postgres"
	default:
		return nil, noop, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, noop, fmt.Errorf("database connection failed: %w", err)
	}
	if driver == "sqlite" {
		// SQLite allows one writer at a time
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, noop, fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, noop, err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	return NewSQLStore(conn), conn.Close, nil
}
