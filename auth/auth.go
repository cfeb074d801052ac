// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrMissingIdentity  = errors.New("missing caller identity")
	ErrInvalidAccessKey = errors.New("invalid access key")
)

// GenerateAccessKey creates an HMAC-based access key for an identity
// This is deterministic and verifiable
func GenerateAccessKey(identity, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(identity))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAccessKey checks if the provided access key belongs to the identity
func ValidateAccessKey(identity, accessKey, salt string) error {
	expected := GenerateAccessKey(identity, salt)
	if !hmac.Equal([]byte(accessKey), []byte(expected)) {
		return ErrInvalidAccessKey
	}
	return nil
}

// Authenticate returns the caller identity once its access key checks out
func Authenticate(identity, accessKey, salt string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", ErrMissingIdentity
	}
	if err := ValidateAccessKey(identity, accessKey, salt); err != nil {
		return "", err
	}
	return identity, nil
}
