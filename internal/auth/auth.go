// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth resolves the caller's identity for the LawGPT backend.
//
// Authentication itself is external: the backend issues a bearer token at
// login and this client only stores and presents it. The user id is read
// from the token's JWT payload without signature verification, the same
// way the browser client does; the backend remains the authority.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvToken overrides the token file when set.
const EnvToken = "LAWCHAT_TOKEN"

var (
	// ErrNoToken indicates no token was found in the environment or on disk.
	ErrNoToken = errors.New("no access token found")

	// ErrBadToken indicates the token is present but not a decodable JWT.
	ErrBadToken = errors.New("access token is not a valid JWT")
)

// Identity is the resolved caller identity.
type Identity struct {
	UserID string
	Token  string
}

// LoadToken returns the bearer token from, in order: the LAWCHAT_TOKEN
// environment variable, then the token file under the config directory.
func LoadToken(configDir string) (string, error) {
	if tok := strings.TrimSpace(os.Getenv(EnvToken)); tok != "" {
		return tok, nil
	}

	data, err := os.ReadFile(filepath.Join(configDir, "token"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Load resolves the full identity: token plus the user id decoded from
// its payload.
func Load(configDir string) (*Identity, error) {
	tok, err := LoadToken(configDir)
	if err != nil {
		return nil, err
	}
	uid, err := UserIDFromToken(tok)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: uid, Token: tok}, nil
}

// jwtClaims covers the two claim names the backend has used for the
// subject id. Numbers arrive as json.Number so integer ids survive.
type jwtClaims struct {
	UserID json.Number `json:"user_id"`
	ID     json.Number `json:"id"`
}

// UserIDFromToken extracts the user id from a JWT's payload segment.
// The signature is NOT verified; the id is only used to scope API paths.
func UserIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrBadToken
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(payload)))
	dec.UseNumber()
	var claims jwtClaims
	if err := dec.Decode(&claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	if claims.UserID != "" {
		return claims.UserID.String(), nil
	}
	if claims.ID != "" {
		return claims.ID.String(), nil
	}
	return "", fmt.Errorf("%w: payload has no user id claim", ErrBadToken)
}

// decodeSegment decodes a base64url JWT segment, tolerating both padded
// and unpadded encodings.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(seg)
}
