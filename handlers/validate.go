// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-rank/irv"
)

const minOptions = 2

// normalizeOptions trims labels and rejects blank or repeated ones
func normalizeOptions(options []string) ([]string, error) {
	out := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))

	for _, o := range options {
		label := strings.TrimSpace(o)
		if label == "" {
			return nil, errors.New("options must not be blank")
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate option %q", label)
		}
		seen[label] = true
		out = append(out, label)
	}

	if len(out) < minOptions {
		return nil, fmt.Errorf("at least %d options are required", minOptions)
	}
	return out, nil
}

// validateRankings checks a ballot against the poll's option list. Partial
// ballots are allowed; each ranked option must be known and appear once.
func validateRankings(rankings []irv.Ranking, options []string) error {
	if len(rankings) == 0 {
		return errors.New("rankings are required")
	}

	known := make(map[string]bool, len(options))
	for _, o := range options {
		known[o] = true
	}

	seen := make(map[string]bool, len(rankings))
	for _, r := range rankings {
		if !known[r.Option] {
			return fmt.Errorf("unknown option %q", r.Option)
		}
		if seen[r.Option] {
			return fmt.Errorf("option %q ranked more than once", r.Option)
		}
		if r.Rank < 1 {
			return fmt.Errorf("rank for %q must be positive", r.Option)
		}
		seen[r.Option] = true
	}
	return nil
}

// adminKeyFrom reads the admin key from the X-Admin-Key header, falling back
// to the admin_key or adminKey query parameters used by share links
func adminKeyFrom(r *http.Request) string {
	if key := r.Header.Get("X-Admin-Key"); key != "" {
		return key
	}
	q := r.URL.Query()
	if key := q.Get("admin_key"); key != "" {
		return key
	}
	return q.Get("adminKey")
}
