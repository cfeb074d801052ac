// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller authentication for the election API.

# Access Keys

Access keys use HMAC-SHA256 over the caller identity:

	key := auth.GenerateAccessKey("alice", salt)
	err := auth.ValidateAccessKey("alice", key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same identity and salt always produce the same key, so keys never need to
be stored. The administrator's key is derived from the configured admin id;
voter keys are returned when the administrator registers a voter.

# Authentication

Requests carry the identity and key in headers:

	X-Caller-ID:  alice
	X-Access-Key: <key>

Authenticate validates the pair and returns the identity that is passed to
the election operations as the caller.
*/
package auth
