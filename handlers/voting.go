// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

type VotingHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewVotingHandler(st store.Store, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: st, cfg: cfg}
}

// SubmitVote handles POST /api/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, ok := fetchPoll(w, r, h.store, req.PollID)
	if !ok {
		return
	}

	if poll.Closed {
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is closed")
		return
	}

	if err := validateRankings(req.Rankings, poll.Options); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// One ballot per client address
	voterKey := auth.HashIP(middleware.GetClientIP(r, h.cfg.TrustProxy), h.cfg.IPHashSalt)

	vote := models.Vote{
		ID:        uuid.NewString(),
		PollID:    poll.ID,
		Rankings:  append([]irv.Ranking(nil), req.Rankings...),
		VoterKey:  voterKey,
		CreatedAt: time.Now().UTC(),
	}

	err := h.store.CreateVote(r.Context(), vote)
	if errors.Is(err, store.ErrAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this poll")
		return
	}
	if errors.Is(err, store.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to insert vote", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	slog.Info("vote submitted", "poll_id", poll.ID, "vote_id", vote.ID, "ranked", len(vote.Rankings))

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		VoteID:  vote.ID,
		Message: "Vote recorded",
	})
}
