// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Rank API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - PollHandler: Poll create, read, update and close
  - VotingHandler: Ballot submission
  - ResultsHandler: IRV results and CSV export

	pollHandler := handlers.NewPollHandler(st, cfg)

# Polls

	POST  /api/polls            → CreatePoll (returns adminKey and shareUrl)
	GET   /api/polls/{id}       → GetPoll
	PATCH /api/polls/{id}       → UpdatePoll
	POST  /api/polls/{id}/close → ClosePoll

Admin operations take the key in the X-Admin-Key header. Once a poll has
votes, UpdatePoll is refused unless the poll allows edits.

# Voting

	POST /api/votes → SubmitVote

A ballot ranks any subset of the poll's options with positive ranks, each
option at most once. Voters are identified by a salted hash of the client
address, so a second ballot from the same address is rejected with 409.

# Results

	GET /api/polls/{id}/results     → GetResults
	GET /api/polls/{id}/results.csv → ExportCSV

Results are tabulated on every request from the stored ballots. They are
visible to everyone when the poll shows results, and otherwise only with the
admin key, given as the header or the admin_key query parameter.
*/
package handlers
