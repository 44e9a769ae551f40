// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens, and ID generation.

# Sessions

Sessions are stateless JWTs (HS256) carrying the account email as subject:

	token, err := auth.IssueToken(email, cfg.JWTSecret)
	email, err := auth.ParseToken(token, cfg.JWTSecret)

Tokens expire after TokenTTL (24h). The account's role is NOT embedded in
the token - middleware loads it from the database on every request, so a
role change takes effect immediately rather than at next login.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password)

# IDs

GenerateID produces crypto/rand hex identifiers for contests and
submissions. Checkout session IDs come from GenerateSessionID, which keys
a random UUID nonce with the deployment's SESSION_SALT via HMAC-SHA256.
*/
package auth
