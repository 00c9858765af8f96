// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeJWT builds an unsigned JWT with the given payload JSON.
func makeJWT(t *testing.T, payload string) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".signature"
}

func TestUserIDFromToken_NumericUserID(t *testing.T) {
	tok := makeJWT(t, `{"user_id": 17, "exp": 1735689600}`)

	uid, err := UserIDFromToken(tok)
	require.NoError(t, err)
	require.Equal(t, "17", uid)
}

func TestUserIDFromToken_StringIDClaim(t *testing.T) {
	tok := makeJWT(t, `{"id": "abc-123"}`)

	uid, err := UserIDFromToken(tok)
	require.NoError(t, err)
	require.Equal(t, "abc-123", uid)
}

func TestUserIDFromToken_UserIDWinsOverID(t *testing.T) {
	tok := makeJWT(t, `{"user_id": 7, "id": 99}`)

	uid, err := UserIDFromToken(tok)
	require.NoError(t, err)
	require.Equal(t, "7", uid)
}

func TestUserIDFromToken_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"not a jwt", "just-an-opaque-token"},
		{"two segments", "aaaa.bbbb"},
		{"bad base64", "aaaa.!!!!.cccc"},
		{"no id claim", makeJWT(t, `{"exp": 1735689600}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UserIDFromToken(tc.token)
			require.ErrorIs(t, err, ErrBadToken)
		})
	}
}

func TestLoadToken_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("file-token\n"), 0600))
	t.Setenv(EnvToken, "env-token")

	tok, err := LoadToken(dir)
	require.NoError(t, err)
	require.Equal(t, "env-token", tok)
}

func TestLoadToken_FromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("  file-token  \n"), 0600))
	t.Setenv(EnvToken, "")

	tok, err := LoadToken(dir)
	require.NoError(t, err)
	require.Equal(t, "file-token", tok)
}

func TestLoadToken_Missing(t *testing.T) {
	t.Setenv(EnvToken, "")

	_, err := LoadToken(t.TempDir())
	require.ErrorIs(t, err, ErrNoToken)
}

func TestLoad_FullIdentity(t *testing.T) {
	t.Setenv(EnvToken, makeJWT(t, `{"user_id": 3}`))

	id, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "3", id.UserID)
	require.NotEmpty(t, id.Token)
}

func TestLoad_BadTokenPropagates(t *testing.T) {
	t.Setenv(EnvToken, "opaque")

	_, err := Load(t.TempDir())
	require.True(t, errors.Is(err, ErrBadToken))
}
