// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	mux := NewRouter(testutil.SetupTestStore(t), testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := NewRouter(testutil.SetupTestStore(t), testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-rank API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := NewRouter(testutil.SetupTestStore(t), testutil.GetTestConfig())

	// 400, 401, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"POST", "/api/polls"},
		{"GET", "/api/polls/test-id"},
		{"PATCH", "/api/polls/test-id"},
		{"POST", "/api/polls/test-id/close"},
		{"POST", "/api/votes"},
		{"GET", "/api/polls/test-id/results"},
		{"GET", "/api/polls/test-id/results.csv"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := NewRouter(testutil.SetupTestStore(t), testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/api/polls/test-id"},
		{"PUT", "/api/polls/test-id/close"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	mux := NewRouter(testutil.SetupTestStore(t), testutil.GetTestConfig())

	req := httptest.NewRequest("OPTIONS", "/api/votes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected origin to be echoed, got %q", got)
	}
}

// TestFullVotingWorkflow drives the API end to end:
// create, vote from five addresses, edit lock, results, CSV, close
func TestFullVotingWorkflow(t *testing.T) {
	cfg := testutil.GetTestConfig()

	for name, newMux := range map[string]func(*testing.T) http.Handler{
		"memory": func(t *testing.T) http.Handler { return NewRouter(testutil.SetupTestStore(t), cfg) },
		"sqlite": func(t *testing.T) http.Handler { return NewRouter(testutil.SetupTestSQLiteStore(t), cfg) },
	} {
		t.Run(name, func(t *testing.T) {
			mux := newMux(t)
			noEdits := false

			// Step 1: Create a poll
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls", models.CreatePollRequest{
				Title:      "Team offsite",
				Options:    []string{"Tokyo", "Lisbon", "Reykjavik"},
				AllowEdits: &noEdits,
			}, nil))
			if w.Code != http.StatusCreated {
				t.Fatalf("Step 1 - Create poll failed: %d - %s", w.Code, w.Body.String())
			}
			var created models.CreatePollResponse
			testutil.AssertJSON(t, w, &created)
			pollID := created.Poll.ID
			adminKey := created.AdminKey

			// Step 2: Five voters, one duplicate
			ballots := []struct {
				ip       string
				rankings []irv.Ranking
				status   int
			}{
				{"198.51.100.1", []irv.Ranking{{Option: "Reykjavik", Rank: 1}, {Option: "Tokyo", Rank: 2}}, http.StatusCreated},
				{"198.51.100.2", []irv.Ranking{{Option: "Tokyo", Rank: 1}}, http.StatusCreated},
				{"198.51.100.3", []irv.Ranking{{Option: "Lisbon", Rank: 1}}, http.StatusCreated},
				{"198.51.100.4", []irv.Ranking{{Option: "Lisbon", Rank: 2}, {Option: "Tokyo", Rank: 1}}, http.StatusCreated},
				{"198.51.100.5", []irv.Ranking{{Option: "Lisbon", Rank: 1}}, http.StatusCreated},
				{"198.51.100.2", []irv.Ranking{{Option: "Lisbon", Rank: 1}}, http.StatusConflict},
			}
			for i, b := range ballots {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, testutil.FromAddr(testutil.MakeRequest("POST", "/api/votes", models.SubmitVoteRequest{
					PollID:   pollID,
					Rankings: b.rankings,
				}, nil), b.ip))
				if w.Code != b.status {
					t.Fatalf("Step 2 - Ballot %d: expected %d, got %d - %s", i, b.status, w.Code, w.Body.String())
				}
			}

			// Step 3: Edits are locked once votes exist
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest("PATCH", "/api/polls/"+pollID, models.UpdatePollRequest{
				Options: []string{"Oslo", "Rome"},
			}, map[string]string{"X-Admin-Key": adminKey}))
			if w.Code != http.StatusForbidden {
				t.Fatalf("Step 3 - Expected 403, got %d - %s", w.Code, w.Body.String())
			}

			// Step 4: Results. Reykjavik goes first and transfers to Tokyo.
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/polls/"+pollID+"/results", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Step 4 - Results failed: %d - %s", w.Code, w.Body.String())
			}
			var res models.ResultsResponse
			testutil.AssertJSON(t, w, &res)
			if res.Result.Winner != "Tokyo" || len(res.Result.Rounds) != 2 || res.TotalVotes != 5 {
				t.Errorf("Step 4 - Unexpected result %+v", res.Result)
			}

			// Step 5: CSV export of the final round
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/polls/"+pollID+"/results.csv", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Step 5 - CSV failed: %d", w.Code)
			}
			records, err := csv.NewReader(w.Body).ReadAll()
			if err != nil {
				t.Fatalf("Step 5 - Invalid CSV: %v", err)
			}
			if len(records) != 3 || records[1][0] != "Tokyo" || records[1][2] != "60.0" {
				t.Errorf("Step 5 - Unexpected CSV %v", records)
			}

			// Step 6: Close, then voting is refused
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls/"+pollID+"/close", nil, map[string]string{
				"X-Admin-Key": adminKey,
			}))
			if w.Code != http.StatusOK {
				t.Fatalf("Step 6 - Close failed: %d - %s", w.Code, w.Body.String())
			}

			w = httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.FromAddr(testutil.MakeRequest("POST", "/api/votes", models.SubmitVoteRequest{
				PollID:   pollID,
				Rankings: []irv.Ranking{{Option: "Lisbon", Rank: 1}},
			}, nil), "198.51.100.99"))
			if w.Code != http.StatusConflict {
				t.Errorf("Step 6 - Expected 409 after close, got %d", w.Code)
			}
		})
	}
}
