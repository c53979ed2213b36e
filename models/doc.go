// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, description, options, allowEdits, showResults
  - UpdatePollRequest: same fields, all optional
  - SubmitVoteRequest: pollId, rankings ([{option, rank}])

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll, adminKey, shareUrl
  - SubmitVoteResponse: voteId, message
  - ClosePollResponse: message
  - ResultsResponse: poll, result, summary, totalVotes, isAdmin
  - ErrorResponse: error, message

# Domain Types

  - Poll: poll metadata, option labels and flags
  - Vote: one ranked ballot; VoterKey (a salted IP hash) is never serialized

Ballots converts stored votes to irv.Ballot values for tabulation.
*/
package models
