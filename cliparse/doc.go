// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminID: Administrator identity (required)
  - AccessKeySalt: Secret for access key HMAC (required)

# Sources

Values are resolved in order, later sources winning:

 1. defaults
 2. .env file in the working directory (optional)
 3. environment variables
 4. CLI flags

# CLI Flags

	-p         Server port
	-d         Database URL
	-t         Database type
	-admin     Administrator identity
	-key-salt  Access key salt

# Environment Variables

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	ADMIN_ID        → -admin
	ACCESS_KEY_SALT → -key-salt

# Validation

ParseFlags returns an error if required values are missing or the database
type is not sqlite or postgres.
*/
package cliparse
