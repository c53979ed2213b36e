package models

import (
	"time"

	"github.com/danielhkuo/quickly-rank/irv"
)

// Request types

type CreatePollRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	AllowEdits  *bool    `json:"allowEdits,omitempty"`
	ShowResults *bool    `json:"showResults,omitempty"`
}

// Nil fields are left unchanged
type UpdatePollRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Options     []string `json:"options,omitempty"`
	AllowEdits  *bool    `json:"allowEdits,omitempty"`
	ShowResults *bool    `json:"showResults,omitempty"`
}

type SubmitVoteRequest struct {
	PollID   string        `json:"pollId"`
	Rankings []irv.Ranking `json:"rankings"`
}

// Response types

type CreatePollResponse struct {
	Poll     Poll   `json:"poll"`
	AdminKey string `json:"adminKey"`
	ShareURL string `json:"shareUrl"`
}

// PollResponse is the public view of a poll. HasVoted refers to the caller.
type PollResponse struct {
	Poll       Poll `json:"poll"`
	TotalVotes int  `json:"totalVotes"`
	HasVoted   bool `json:"hasVoted"`
}

type SubmitVoteResponse struct {
	VoteID  string `json:"voteId"`
	Message string `json:"message"`
}

type ClosePollResponse struct {
	Message string `json:"message"`
}

type ResultsResponse struct {
	Poll       Poll       `json:"poll"`
	Result     irv.Result `json:"result"`
	Summary    string     `json:"summary"`
	TotalVotes int        `json:"totalVotes"`
	IsAdmin    bool       `json:"isAdmin"`
}

// Domain types

type Poll struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Options     []string  `json:"options"`
	AllowEdits  bool      `json:"allowEdits"`
	ShowResults bool      `json:"showResults"`
	Closed      bool      `json:"closed"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Vote struct {
	ID        string        `json:"id"`
	PollID    string        `json:"pollId"`
	Rankings  []irv.Ranking `json:"rankings"`
	VoterKey  string        `json:"-"` // Never expose in JSON
	CreatedAt time.Time     `json:"createdAt"`
}

// Ballots converts stored votes into tabulator input
func Ballots(votes []Vote) []irv.Ballot {
	ballots := make([]irv.Ballot, len(votes))
	for i, v := range votes {
		ballots[i] = irv.Ballot{Rankings: v.Rankings}
	}
	return ballots
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
