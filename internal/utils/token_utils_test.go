package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorTokenRoundTrip(t *testing.T) {
	token, err := GenerateOperatorToken("op-7", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseOperatorToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "op-7", claims.Subject)
	assert.Equal(t, OperatorTokenIssuer, claims.Issuer)
}

func TestParseOperatorToken_Rejects(t *testing.T) {
	expired, err := GenerateOperatorToken("op-7", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseOperatorToken(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := GenerateOperatorToken("op-7", "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseOperatorToken(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = GenerateOperatorToken("", "secret", time.Hour)
	assert.Error(t, err)
}
