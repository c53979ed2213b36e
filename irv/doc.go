// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package irv implements instant-runoff voting tabulation.

# Tabulation

Tabulate takes every submitted ballot and the poll's options:

	result := irv.Tabulate(ballots, options)

Each round counts every ballot toward its highest-ranked option that is still
contending. An option with more than half of all ballots wins. Otherwise every
option tied at the lowest tally is eliminated and the next round begins.

# Percentages

Percentages are computed against the original ballot count in every round.
Ballots whose ranked options have all been eliminated (exhausted ballots)
still count in the denominator. Values are not rounded.

# Edge Cases

  - No ballots: the first option is returned with no rounds and zero votes
  - One option: it wins with no rounds
  - All remaining options tied: the option listed first is kept and wins,
    and Result.TieBreak is set
  - Rankings naming unknown options are skipped

Tabulate holds no state and never modifies its arguments, so it is safe to
call concurrently.
*/
package irv
