// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-rank/irv"
)

// Rounded rounds a percentage to one decimal place for display
func Rounded(p float64) float64 {
	return math.Round(p*10) / 10
}

// WriteCSV writes the final round as Option,Votes,Percentage rows.
// A result with no rounds produces only the header.
func WriteCSV(w io.Writer, r irv.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Option", "Votes", "Percentage"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range r.FinalRound() {
		row := []string{
			entry.Option,
			strconv.Itoa(entry.Votes),
			strconv.FormatFloat(Rounded(entry.Percentage), 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Summary describes the outcome in one sentence
func Summary(r irv.Result) string {
	if r.TotalVotes == 0 {
		return "No votes yet"
	}

	noun := "votes"
	if r.TotalVotes == 1 {
		noun = "vote"
	}

	final := r.FinalRound()
	if final == nil {
		return fmt.Sprintf("%s wins unopposed with %s %s cast", r.Winner, humanize.Comma(int64(r.TotalVotes)), noun)
	}

	var winnerVotes int
	var winnerPct float64
	for _, entry := range final {
		if entry.Option == r.Winner {
			winnerVotes = entry.Votes
			winnerPct = entry.Percentage
		}
	}

	s := fmt.Sprintf("%s wins in the %s round with %s of %s %s (%.1f%%)",
		r.Winner,
		humanize.Ordinal(len(r.Rounds)),
		humanize.Comma(int64(winnerVotes)),
		humanize.Comma(int64(r.TotalVotes)),
		noun,
		Rounded(winnerPct),
	)
	if r.TieBreak {
		s += " after a tie-break"
	}
	return s
}
