// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/results"
	"github.com/danielhkuo/quickly-rank/store"
)

type ResultsHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewResultsHandler(st store.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: st, cfg: cfg}
}

// GetResults handles GET /api/polls/{id}/results
// Returns 403 unless the caller holds the admin key or the poll shows results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	poll, result, isAdmin, ok := h.tabulate(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Poll:       poll,
		Result:     result,
		Summary:    results.Summary(result),
		TotalVotes: result.TotalVotes,
		IsAdmin:    isAdmin,
	})
}

// ExportCSV handles GET /api/polls/{id}/results.csv
func (h *ResultsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	poll, result, _, ok := h.tabulate(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+poll.ID+`-results.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := results.WriteCSV(w, result); err != nil {
		slog.Error("failed to write CSV", "error", err, "poll_id", poll.ID)
	}
}

// tabulate authorizes the caller and runs IRV over the poll's stored ballots.
// On failure it has already written the error response.
func (h *ResultsHandler) tabulate(w http.ResponseWriter, r *http.Request) (models.Poll, irv.Result, bool, bool) {
	poll, ok := fetchPoll(w, r, h.store, r.PathValue("id"))
	if !ok {
		return models.Poll{}, irv.Result{}, false, false
	}

	isAdmin := auth.ValidateAdminKey(poll.ID, adminKeyFrom(r), h.cfg.AdminKeySalt) == nil
	if !isAdmin && !poll.ShowResults {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results not public")
		return models.Poll{}, irv.Result{}, false, false
	}

	votes, err := h.store.GetVotesByPollID(r.Context(), poll.ID)
	if err != nil {
		slog.Error("failed to query votes", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Poll{}, irv.Result{}, false, false
	}

	result := irv.Tabulate(models.Ballots(votes), poll.Options)
	slog.Debug("poll tabulated", "poll_id", poll.ID, "ballots", len(votes), "rounds", len(result.Rounds))

	return poll, result, isAdmin, true
}
