// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import "sort"

// Ranking places one option at a position on a ballot. Rank 1 is most preferred.
type Ranking struct {
	Option string `json:"option" yaml:"option"`
	Rank   int    `json:"rank" yaml:"rank"`
}

// Ballot is one voter's ranked preferences. It may rank a subset of options.
type Ballot struct {
	Rankings []Ranking `json:"rankings" yaml:"rankings"`
}

// RoundResult is one option's standing in one elimination round
type RoundResult struct {
	Option     string  `json:"option" yaml:"option"`
	Votes      int     `json:"votes" yaml:"votes"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Eliminated bool    `json:"eliminated" yaml:"eliminated"`
	Round      int     `json:"round" yaml:"round"`
}

// Result is the outcome of a tabulation.
// TieBreak is set when every remaining option was tied and the winner was
// chosen by option order rather than by votes.
type Result struct {
	Winner     string          `json:"winner" yaml:"winner"`
	Rounds     [][]RoundResult `json:"rounds" yaml:"rounds"`
	TotalVotes int             `json:"totalVotes" yaml:"totalVotes"`
	TieBreak   bool            `json:"tieBreak" yaml:"tieBreak"`
}

// FinalRound returns the last recorded round, or nil if there were none
func (r Result) FinalRound() []RoundResult {
	if len(r.Rounds) == 0 {
		return nil
	}
	return r.Rounds[len(r.Rounds)-1]
}

// Tabulate runs instant-runoff voting over the ballots.
//
// Every option tied at the lowest tally is eliminated in the same round. If
// that would eliminate all remaining options, the one listed first in options
// is kept and wins. Entries naming unknown options are ignored, and ballots
// with no remaining preference still count toward the percentage denominator.
// Neither input slice is modified.
func Tabulate(ballots []Ballot, options []string) Result {
	rounds := [][]RoundResult{}
	if len(options) == 0 {
		return Result{Rounds: rounds, TotalVotes: len(ballots)}
	}
	if len(ballots) == 0 {
		return Result{Winner: options[0], Rounds: rounds}
	}

	total := len(ballots)
	orders := preferenceOrders(ballots)

	contending := make([]string, len(options))
	copy(contending, options)

	for len(contending) > 1 {
		tally := countFirstPreferences(orders, contending)
		round := make([]RoundResult, len(contending))
		for i, option := range contending {
			round[i] = RoundResult{
				Option:     option,
				Votes:      tally[option],
				Percentage: float64(tally[option]) / float64(total) * 100,
				Round:      len(rounds) + 1,
			}
		}

		// Strict majority of all ballots, exhausted ones included
		leader := round[0]
		for _, r := range round[1:] {
			if r.Votes > leader.Votes {
				leader = r
			}
		}
		if leader.Votes*2 > total {
			rounds = append(rounds, round)
			return Result{Winner: leader.Option, Rounds: rounds, TotalVotes: total}
		}

		minVotes := round[0].Votes
		for _, r := range round[1:] {
			if r.Votes < minVotes {
				minVotes = r.Votes
			}
		}

		tieBreak := true
		for _, r := range round {
			if r.Votes != minVotes {
				tieBreak = false
				break
			}
		}

		remaining := make([]string, 0, len(contending))
		for i := range round {
			if round[i].Votes == minVotes && !(tieBreak && i == 0) {
				round[i].Eliminated = true
				continue
			}
			remaining = append(remaining, round[i].Option)
		}
		rounds = append(rounds, round)
		contending = remaining

		if len(contending) == 1 {
			return Result{Winner: contending[0], Rounds: rounds, TotalVotes: total, TieBreak: tieBreak}
		}
	}

	return Result{Winner: contending[0], Rounds: rounds, TotalVotes: total}
}

// preferenceOrders returns each ballot's options sorted by ascending rank.
// Equal ranks keep their submitted order.
func preferenceOrders(ballots []Ballot) [][]string {
	orders := make([][]string, len(ballots))
	for i, b := range ballots {
		sorted := make([]Ranking, len(b.Rankings))
		copy(sorted, b.Rankings)
		sort.SliceStable(sorted, func(a, c int) bool {
			return sorted[a].Rank < sorted[c].Rank
		})

		order := make([]string, len(sorted))
		for j, r := range sorted {
			order[j] = r.Option
		}
		orders[i] = order
	}
	return orders
}

// countFirstPreferences tallies each ballot's highest-ranked contending option.
// Every contending option has an entry, even at zero.
func countFirstPreferences(orders [][]string, contending []string) map[string]int {
	tally := make(map[string]int, len(contending))
	for _, option := range contending {
		tally[option] = 0
	}

	for _, order := range orders {
		for _, option := range order {
			if _, ok := tally[option]; ok {
				tally[option]++
				break
			}
		}
	}
	return tally
}
