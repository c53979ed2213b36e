// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides poll and vote persistence behind small interfaces.

# Repositories

Handlers depend on PollRepository and VoteRepository, never on a concrete
backend. Store combines both.

# Backends

Open picks one from configuration:

	st, closeFn, err := store.Open(cfg)
	defer closeFn()

  - memory: MemoryStore, used when no DATABASE_URL is set
  - sqlite: SQLStore on modernc.org/sqlite
  - postgres: SQLStore on github.com/lib/pq

# Duplicate Votes

CreateVote returns ErrAlreadyVoted when the voter key already has a vote in
the poll. MemoryStore checks under its lock; SQLStore relies on the
UNIQUE (poll_id, voter_key) constraint, so concurrent submissions from the
same voter cannot both succeed.
*/
package store
