// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

type PollHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewPollHandler(st store.Store, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: st, cfg: cfg}
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	title := strings.TrimSpace(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	options, err := normalizeOptions(req.Options)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	pollID, err := auth.GeneratePollID()
	if err != nil {
		slog.Error("failed to generate poll ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	poll := models.Poll{
		ID:          pollID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Options:     options,
		AllowEdits:  boolOr(req.AllowEdits, true),
		ShowResults: boolOr(req.ShowResults, true),
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.store.CreatePoll(r.Context(), poll); err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		Poll:     poll,
		AdminKey: auth.GenerateAdminKey(pollID, h.cfg.AdminKeySalt),
		ShareURL: h.cfg.BaseURL + "/poll/" + pollID,
	})
}

// GetPoll handles GET /api/polls/{id}
// Returns the public poll plus whether the caller has already voted
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, ok := h.loadPoll(w, r)
	if !ok {
		return
	}

	count, err := h.store.CountVotes(r.Context(), poll.ID)
	if err != nil {
		slog.Error("failed to count votes", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voterKey := auth.HashIP(middleware.GetClientIP(r, h.cfg.TrustProxy), h.cfg.IPHashSalt)
	voted, err := h.store.HasVoted(r.Context(), poll.ID, voterKey)
	if err != nil {
		slog.Error("failed to check vote", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{
		Poll:       poll,
		TotalVotes: count,
		HasVoted:   voted,
	})
}

// UpdatePoll handles PATCH /api/polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if err := auth.ValidateAdminKey(pollID, adminKeyFrom(r), h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, ok := h.loadPoll(w, r)
	if !ok {
		return
	}

	// Apply partial update
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		poll.Title = title
	}
	if req.Description != nil {
		poll.Description = strings.TrimSpace(*req.Description)
	}
	if req.Options != nil {
		options, err := normalizeOptions(req.Options)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		poll.Options = options
	}
	poll.AllowEdits = boolOr(req.AllowEdits, poll.AllowEdits)
	poll.ShowResults = boolOr(req.ShowResults, poll.ShowResults)

	// The store refuses edits once votes exist unless the poll allows them
	err := h.store.UpdatePoll(r.Context(), poll)
	if errors.Is(err, store.ErrEditsLocked) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot edit poll after votes are cast")
		return
	}
	if errors.Is(err, store.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to update poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}

	slog.Info("poll updated", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ClosePoll handles POST /api/polls/{id}/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if err := auth.ValidateAdminKey(pollID, adminKeyFrom(r), h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	err := h.store.ClosePoll(r.Context(), pollID)
	if errors.Is(err, store.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to close poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close poll")
		return
	}

	slog.Info("poll closed", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, models.ClosePollResponse{
		Message: "Poll closed successfully",
	})
}

// loadPoll fetches the poll named by the {id} path value. On failure it has
// already written the error response.
func (h *PollHandler) loadPoll(w http.ResponseWriter, r *http.Request) (models.Poll, bool) {
	return fetchPoll(w, r, h.store, r.PathValue("id"))
}

func fetchPoll(w http.ResponseWriter, r *http.Request, polls store.PollRepository, pollID string) (models.Poll, bool) {
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return models.Poll{}, false
	}

	poll, err := polls.GetPoll(r.Context(), pollID)
	if errors.Is(err, store.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return models.Poll{}, false
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Poll{}, false
	}
	return poll, true
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
