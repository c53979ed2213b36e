// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

// SetupTestStore returns an empty in-memory store
func SetupTestStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewMemoryStore()
}

// SetupTestSQLiteStore returns a store on a private in-memory SQLite database
func SetupTestSQLiteStore(t *testing.T) store.Store {
	t.Helper()

	st, closeFn, err := store.Open(cliparse.Config{
		DatabaseType: cliparse.DatabaseSQLite,
		DatabaseURL:  "file::memory:",
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { closeFn() })

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: cliparse.DatabaseMemory,
		AdminKeySalt: "test-admin-salt",
		IPHashSalt:   "test-ip-salt",
		BaseURL:      "http://localhost:3318",
	}
}

// PollOption customizes a poll created by CreateTestPoll
type PollOption func(*models.Poll)

func WithOptions(options ...string) PollOption {
	return func(p *models.Poll) { p.Options = options }
}

func Closed() PollOption {
	return func(p *models.Poll) { p.Closed = true }
}

func PrivateResults() PollOption {
	return func(p *models.Poll) { p.ShowResults = false }
}

func Locked() PollOption {
	return func(p *models.Poll) { p.AllowEdits = false }
}

// CreateTestPoll stores a poll with options Tokyo, Lisbon and Reykjavik and
// returns its ID and admin key
func CreateTestPoll(t *testing.T, st store.Store, cfg cliparse.Config, opts ...PollOption) (pollID, adminKey string) {
	t.Helper()

	pollID, err := auth.GeneratePollID()
	if err != nil {
		t.Fatalf("Failed to generate poll ID: %v", err)
	}

	poll := models.Poll{
		ID:          pollID,
		Title:       "Test Poll",
		Description: "A test poll",
		Options:     []string{"Tokyo", "Lisbon", "Reykjavik"},
		AllowEdits:  true,
		ShowResults: true,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&poll)
	}

	if err := st.CreatePoll(context.Background(), poll); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID, auth.GenerateAdminKey(pollID, cfg.AdminKeySalt)
}

// SubmitTestVote stores a ballot ranking options in the given order and
// returns the vote ID
func SubmitTestVote(t *testing.T, st store.Store, pollID, voterKey string, options ...string) string {
	t.Helper()

	vote := models.Vote{
		ID:        uuid.NewString(),
		PollID:    pollID,
		VoterKey:  voterKey,
		CreatedAt: time.Now().UTC(),
	}
	for i, o := range options {
		vote.Rankings = append(vote.Rankings, irv.Ranking{Option: o, Rank: i + 1})
	}

	if err := st.CreateVote(context.Background(), vote); err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return vote.ID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// FromAddr sets the request's peer address, as the server would see it
// without a proxy in front
func FromAddr(req *http.Request, ip string) *http.Request {
	req.RemoteAddr = net.JoinHostPort(ip, "5555")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
