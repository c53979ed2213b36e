// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"

	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/models"
)

// MemoryStore keeps polls and votes in process memory.
// Data is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	polls  map[string]models.Poll
	votes  map[string][]models.Vote        // poll ID -> votes in submission order
	voters map[string]map[string]struct{} // poll ID -> voter keys
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		polls:  make(map[string]models.Poll),
		votes:  make(map[string][]models.Vote),
		voters: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) CreatePoll(ctx context.Context, poll models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll.Options = copyOptions(poll.Options)
	s.polls[poll.ID] = poll
	if _, ok := s.voters[poll.ID]; !ok {
		s.voters[poll.ID] = make(map[string]struct{})
	}
	return nil
}

func (s *MemoryStore) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	poll, ok := s.polls[id]
	if !ok {
		return models.Poll{}, ErrPollNotFound
	}
	poll.Options = copyOptions(poll.Options)
	return poll, nil
}

func (s *MemoryStore) UpdatePoll(ctx context.Context, poll models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.polls[poll.ID]
	if !ok {
		return ErrPollNotFound
	}
	if !stored.AllowEdits && len(s.votes[poll.ID]) > 0 {
		return ErrEditsLocked
	}
	poll.Options = copyOptions(poll.Options)
	s.polls[poll.ID] = poll
	return nil
}

func (s *MemoryStore) ClosePoll(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[id]
	if !ok {
		return ErrPollNotFound
	}
	poll.Closed = true
	s.polls[id] = poll
	return nil
}

func (s *MemoryStore) CreateVote(ctx context.Context, vote models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[vote.PollID]; !ok {
		return ErrPollNotFound
	}

	voters := s.voters[vote.PollID]
	if _, voted := voters[vote.VoterKey]; voted {
		return ErrAlreadyVoted
	}
	voters[vote.VoterKey] = struct{}{}

	vote.Rankings = copyRankings(vote.Rankings)
	s.votes[vote.PollID] = append(s.votes[vote.PollID], vote)
	return nil
}

func (s *MemoryStore) GetVotesByPollID(ctx context.Context, pollID string) ([]models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.votes[pollID]
	votes := make([]models.Vote, len(stored))
	for i, v := range stored {
		v.Rankings = copyRankings(v.Rankings)
		votes[i] = v
	}
	return votes, nil
}

func (s *MemoryStore) HasVoted(ctx context.Context, pollID, voterKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, voted := s.voters[pollID][voterKey]
	return voted, nil
}

func (s *MemoryStore) CountVotes(ctx context.Context, pollID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.votes[pollID]), nil
}

func copyOptions(options []string) []string {
	out := make([]string, len(options))
	copy(out, options)
	return out
}

func copyRankings(rankings []irv.Ranking) []irv.Ranking {
	out := make([]irv.Ranking, len(rankings))
	copy(out, rankings)
	return out
}
