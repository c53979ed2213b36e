// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/models"
)

// SQLStore implements Store on database/sql. Queries use $N placeholders,
// which both lib/pq and modernc.org/sqlite accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB exposes the underlying connection pool
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) CreatePoll(ctx context.Context, poll models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, title, description, allow_edits, show_results, closed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, poll.ID, poll.Title, poll.Description, poll.AllowEdits, poll.ShowResults, poll.Closed, poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	if err := insertOptions(ctx, tx, poll.ID, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit poll: %w", err)
	}
	return nil
}

func (s *SQLStore) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, allow_edits, show_results, closed, created_at
		FROM poll
		WHERE id = $1
	`, id).Scan(
		&poll.ID, &poll.Title, &poll.Description,
		&poll.AllowEdits, &poll.ShowResults, &poll.Closed, &poll.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT label FROM poll_option WHERE poll_id = $1 ORDER BY ordinal
	`, id)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	poll.Options = []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return models.Poll{}, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, label)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to read options: %w", err)
	}

	return poll, nil
}

func (s *SQLStore) UpdatePoll(ctx context.Context, poll models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockPoll(ctx, tx, poll.ID); err != nil {
		return err
	}

	var allowEdits bool
	var votes int
	err = tx.QueryRowContext(ctx, `
		SELECT allow_edits, (SELECT COUNT(*) FROM vote WHERE poll_id = $1)
		FROM poll
		WHERE id = $2
	`, poll.ID, poll.ID).Scan(&allowEdits, &votes)
	if err != nil {
		return fmt.Errorf("failed to check edit lock: %w", err)
	}
	if !allowEdits && votes > 0 {
		return ErrEditsLocked
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE poll
		SET title = $1, description = $2, allow_edits = $3, show_results = $4, closed = $5
		WHERE id = $6
	`, poll.Title, poll.Description, poll.AllowEdits, poll.ShowResults, poll.Closed, poll.ID)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}

	// Replace the option list wholesale
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_option WHERE poll_id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	if err := insertOptions(ctx, tx, poll.ID, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit poll update: %w", err)
	}
	return nil
}

func (s *SQLStore) ClosePoll(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE poll SET closed = $1 WHERE id = $2`, true, id)
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}
	if n == 0 {
		return ErrPollNotFound
	}
	return nil
}

func (s *SQLStore) CreateVote(ctx context.Context, vote models.Vote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockPoll(ctx, tx, vote.PollID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, voter_key, created_at)
		VALUES ($1, $2, $3, $4)
	`, vote.ID, vote.PollID, vote.VoterKey, vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	for i, r := range vote.Rankings {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote_ranking (vote_id, ordinal, option_label, rank_value)
			VALUES ($1, $2, $3, $4)
		`, vote.ID, i, r.Option, r.Rank)
		if err != nil {
			return fmt.Errorf("failed to insert ranking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (s *SQLStore) GetVotesByPollID(ctx context.Context, pollID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.voter_key, v.created_at, r.option_label, r.rank_value
		FROM vote v
		LEFT JOIN vote_ranking r ON r.vote_id = v.id
		WHERE v.poll_id = $1
		ORDER BY v.created_at, v.id, r.ordinal
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var (
			id, voterKey string
			createdAt    time.Time
			option       sql.NullString
			rank         sql.NullInt64
		)
		if err := rows.Scan(&id, &voterKey, &createdAt, &option, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}

		if len(votes) == 0 || votes[len(votes)-1].ID != id {
			votes = append(votes, models.Vote{
				ID:        id,
				PollID:    pollID,
				VoterKey:  voterKey,
				CreatedAt: createdAt,
				Rankings:  []irv.Ranking{},
			})
		}
		if option.Valid && rank.Valid {
			last := &votes[len(votes)-1]
			last.Rankings = append(last.Rankings, irv.Ranking{Option: option.String, Rank: int(rank.Int64)})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}

	return votes, nil
}

func (s *SQLStore) HasVoted(ctx context.Context, pollID, voterKey string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote
			WHERE poll_id = $1 AND voter_key = $2
		)
	`, pollID, voterKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return exists, nil
}

func (s *SQLStore) CountVotes(ctx context.Context, pollID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE poll_id = $1
	`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, pollID string, options []string) error {
	for i, label := range options {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, ordinal, label)
			VALUES ($1, $2, $3)
		`, pollID, i, label)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

// lockPoll takes the poll row's write lock for the rest of tx, so ballots and
// edits for one poll run one after the other. Statements after it see every
// vote committed before the lock was granted.
func lockPoll(ctx context.Context, tx *sql.Tx, pollID string) error {
	res, err := tx.ExecContext(ctx, `UPDATE poll SET closed = closed WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to lock poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to lock poll: %w", err)
	}
	if n == 0 {
		return ErrPollNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY conflict
// from either driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}
