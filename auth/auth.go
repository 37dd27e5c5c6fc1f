// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateCSRFToken mints a stateless CSRF token: a random nonce plus an
// HMAC signature over it. No server-side session store is needed to verify.
func GenerateCSRFToken(secret string) (string, error) {
	nonce, err := GenerateID(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSRF nonce: %w", err)
	}
	return nonce + "." + sign(nonce, secret), nil
}

// ValidateCSRFToken checks that the token was minted with the same secret.
func ValidateCSRFToken(token, secret string) error {
	nonce, sig, found := strings.Cut(token, ".")
	if !found || nonce == "" || sig == "" {
		return ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(sign(nonce, secret))) {
		return ErrInvalidSignature
	}
	return nil
}

// sign computes the URL-safe base64 HMAC-SHA256 of the nonce, padding trimmed
// for cleaner tokens.
func sign(nonce, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(nonce))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
