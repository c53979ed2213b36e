// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Call LoadDotEnv first to pick up a local .env file:

	_ = cliparse.LoadDotEnv(".env")

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (empty = in-memory storage)
  - DatabaseType: memory, sqlite (default when a URL is set) or postgres
  - AdminKeySalt: Secret for admin key HMAC (required)
  - IPHashSalt: Secret for voter IP hashing (defaults to AdminKeySalt)
  - BaseURL: Public URL used to build share links

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--base-url    Public URL
	--admin-salt  Admin key salt
	--ip-salt     IP hash salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	BASE_URL       → --base-url
	ADMIN_KEY_SALT → --admin-salt
	IP_HASH_SALT   → --ip-salt

CLI flags take precedence over environment variables, and environment
variables take precedence over the .env file.
*/
package cliparse
