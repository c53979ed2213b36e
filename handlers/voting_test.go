// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/testutil"
)

func TestSubmitVote(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(st, cfg)

	pollID, _ := testutil.CreateTestPoll(t, st, cfg)
	closedID, _ := testutil.CreateTestPoll(t, st, cfg, testutil.Closed())

	tests := []struct {
		name           string
		ip             string
		requestBody    models.SubmitVoteRequest
		expectedStatus int
	}{
		{
			name: "full ballot",
			ip:   "10.0.0.1",
			requestBody: models.SubmitVoteRequest{PollID: pollID, Rankings: []irv.Ranking{
				{Option: "Tokyo", Rank: 1}, {Option: "Lisbon", Rank: 2}, {Option: "Reykjavik", Rank: 3},
			}},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "partial ballot",
			ip:   "10.0.0.2",
			requestBody: models.SubmitVoteRequest{PollID: pollID, Rankings: []irv.Ranking{
				{Option: "Lisbon", Rank: 1},
			}},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "second vote from same address",
			ip:   "10.0.0.1",
			requestBody: models.SubmitVoteRequest{PollID: pollID, Rankings: []irv.Ranking{
				{Option: "Reykjavik", Rank: 1},
			}},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown poll",
			ip:   "10.0.0.3",
			requestBody: models.SubmitVoteRequest{PollID: "TRP95-NOPE00", Rankings: []irv.Ranking{
				{Option: "Tokyo", Rank: 1},
			}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing poll ID",
			ip:             "10.0.0.3",
			requestBody:    models.SubmitVoteRequest{Rankings: []irv.Ranking{{Option: "Tokyo", Rank: 1}}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "closed poll",
			ip:   "10.0.0.3",
			requestBody: models.SubmitVoteRequest{PollID: closedID, Rankings: []irv.Ranking{
				{Option: "Tokyo", Rank: 1},
			}},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "empty rankings",
			ip:             "10.0.0.3",
			requestBody:    models.SubmitVoteRequest{PollID: pollID},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown option",
			ip:   "10.0.0.3",
			requestBody: models.SubmitVoteRequest{PollID: pollID, Rankings: []irv.Ranking{
				{Option: "Atlantis", Rank: 1},
			}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate option",
			ip:   "10.0.0.3",
			requestBody: models.SubmitVoteRequest{PollID: pollID, Rankings: []irv.Ranking{
				{Option: "Tokyo", Rank: 1}, {Option: "Tokyo", Rank: 2},
			}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "zero rank",
			ip:   "10.0.0.3",
			requestBody: models.SubmitVoteRequest{PollID: pollID, Rankings: []irv.Ranking{
				{Option: "Tokyo", Rank: 0},
			}},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.FromAddr(testutil.MakeRequest("POST", "/api/votes", tt.requestBody, nil), tt.ip)
			w := httptest.NewRecorder()

			handler.SubmitVote(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.SubmitVoteResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.VoteID == "" {
					t.Error("Expected a vote ID")
				}
			}
		})
	}

	// Only the two accepted ballots were stored
	count, err := st.CountVotes(context.Background(), pollID)
	if err != nil {
		t.Fatalf("CountVotes failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 stored votes, got %d", count)
	}
}

func TestSubmitVote_InvalidJSON(t *testing.T) {
	handler := NewVotingHandler(testutil.SetupTestStore(t), testutil.GetTestConfig())

	req := httptest.NewRequest("POST", "/api/votes", strings.NewReader(`{"pollId": 7}`))
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitVote_StoresRankings(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(st, cfg)

	pollID, _ := testutil.CreateTestPoll(t, st, cfg)

	// Submitted out of rank order
	rankings := []irv.Ranking{{Option: "Reykjavik", Rank: 2}, {Option: "Tokyo", Rank: 1}}
	req := testutil.MakeRequest("POST", "/api/votes", models.SubmitVoteRequest{PollID: pollID, Rankings: rankings}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	votes, err := st.GetVotesByPollID(context.Background(), pollID)
	if err != nil {
		t.Fatalf("GetVotesByPollID failed: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("Expected 1 vote, got %d", len(votes))
	}
	got := votes[0].Rankings
	if len(got) != 2 || got[0] != rankings[0] || got[1] != rankings[1] {
		t.Errorf("Expected rankings stored as submitted %v, got %v", rankings, got)
	}
	if votes[0].VoterKey == "" || votes[0].VoterKey == "192.0.2.1" {
		t.Errorf("Expected a hashed voter key, got %q", votes[0].VoterKey)
	}
}

func TestSubmitVote_ForwardedHeaders(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantCodes  []int
		wantStored int
	}{
		{"ignored by default", false, []int{http.StatusCreated, http.StatusConflict, http.StatusConflict}, 1},
		{"honoured behind a trusted proxy", true, []int{http.StatusCreated, http.StatusCreated, http.StatusCreated}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testutil.SetupTestStore(t)
			cfg := testutil.GetTestConfig()
			cfg.TrustProxy = tt.trustProxy
			handler := NewVotingHandler(st, cfg)

			pollID, _ := testutil.CreateTestPoll(t, st, cfg)

			// One peer claiming a different origin on every request
			for i, forwarded := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
				req := testutil.MakeRequest("POST", "/api/votes", models.SubmitVoteRequest{
					PollID:   pollID,
					Rankings: []irv.Ranking{{Option: "Tokyo", Rank: 1}},
				}, map[string]string{"X-Forwarded-For": forwarded})
				req.RemoteAddr = "10.0.0.9:5555"
				w := httptest.NewRecorder()

				handler.SubmitVote(w, req)

				if w.Code != tt.wantCodes[i] {
					t.Errorf("Vote %d via %s: expected %d, got %d", i+1, forwarded, tt.wantCodes[i], w.Code)
				}
			}

			count, err := st.CountVotes(context.Background(), pollID)
			if err != nil {
				t.Fatalf("CountVotes failed: %v", err)
			}
			if count != tt.wantStored {
				t.Errorf("Expected %d stored votes, got %d", tt.wantStored, count)
			}
		})
	}
}

func TestConcurrentVotesFromSameAddress(t *testing.T) {
	backends := map[string]func(t *testing.T) *VotingHandler{
		"memory": func(t *testing.T) *VotingHandler {
			return NewVotingHandler(testutil.SetupTestStore(t), testutil.GetTestConfig())
		},
		"sqlite": func(t *testing.T) *VotingHandler {
			return NewVotingHandler(testutil.SetupTestSQLiteStore(t), testutil.GetTestConfig())
		},
	}

	for name, newHandler := range backends {
		t.Run(name, func(t *testing.T) {
			handler := newHandler(t)
			pollID, _ := testutil.CreateTestPoll(t, handler.store, handler.cfg)

			const attempts = 20
			codes := make([]int, attempts)
			var wg sync.WaitGroup
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					req := testutil.FromAddr(testutil.MakeRequest("POST", "/api/votes", models.SubmitVoteRequest{
						PollID:   pollID,
						Rankings: []irv.Ranking{{Option: "Tokyo", Rank: 1}},
					}, nil), "203.0.113.9")
					w := httptest.NewRecorder()
					handler.SubmitVote(w, req)
					codes[i] = w.Code
				}(i)
			}
			wg.Wait()

			tally := map[int]int{}
			for _, c := range codes {
				tally[c]++
			}
			if tally[http.StatusCreated] != 1 || tally[http.StatusConflict] != attempts-1 {
				t.Errorf("Expected 1 created and %d conflicts, got %v", attempts-1, tally)
			}
		})
	}
}

func TestConcurrentVotesFromManyAddresses(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(st, cfg)

	pollID, _ := testutil.CreateTestPoll(t, st, cfg)

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := testutil.FromAddr(testutil.MakeRequest("POST", "/api/votes", models.SubmitVoteRequest{
				PollID:   pollID,
				Rankings: []irv.Ranking{{Option: "Lisbon", Rank: 1}},
			}, nil), fmt.Sprintf("198.51.100.%d", i))
			w := httptest.NewRecorder()
			handler.SubmitVote(w, req)
			if w.Code != http.StatusCreated {
				t.Errorf("Voter %d: expected 201, got %d", i, w.Code)
			}
		}(i)
	}
	wg.Wait()

	count, _ := st.CountVotes(context.Background(), pollID)
	if count != voters {
		t.Errorf("Expected %d votes, got %d", voters, count)
	}
}
