// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Rank API.

# Route Registration

NewRouter returns the CORS-wrapped mux with all endpoints:

	handler := router.NewRouter(st, cfg)

# Endpoints

Health:

	GET /health

Polls:

	POST  /api/polls            - Create poll
	GET   /api/polls/{id}       - Public poll view
	PATCH /api/polls/{id}       - Edit poll (X-Admin-Key)
	POST  /api/polls/{id}/close - Stop accepting votes (X-Admin-Key)

Voting:

	POST /api/votes - Submit ranked ballot

Results:

	GET /api/polls/{id}/results     - Round-by-round IRV result
	GET /api/polls/{id}/results.csv - Final round as CSV

Every API route is wrapped with middleware.WithLogging.
*/
package router
