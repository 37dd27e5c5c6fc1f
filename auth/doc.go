// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and validation utilities.

# CSRF Tokens

Tokens are stateless: a random nonce joined to an HMAC-SHA256 signature
over it, so validation needs only the shared secret and no session store.

	token, err := auth.GenerateCSRFToken(secret)
	err = auth.ValidateCSRFToken(token, secret)

# IP Hashing

HashIP produces a salted one-way hash of a client IP, used anywhere an IP
would otherwise appear in logs:

	hashed := auth.HashIP(clientIP, salt)
*/
package auth
