package jwthelper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("signing-key")

	token, err := GenerateToken(key, 42, "pos-terminal/1.0", time.Hour)
	require.NoError(t, err)

	userID, claims, err := ParseToken(key, token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "pos-terminal/1.0", claims.UserAgent)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err)
}

func TestParseToken_Rejects(t *testing.T) {
	key := []byte("signing-key")

	expired, err := GenerateToken(key, 1, "", -time.Minute)
	require.NoError(t, err)
	foreign, err := GenerateToken([]byte("other-key"), 1, "", time.Hour)
	require.NoError(t, err)
	anonymous, err := GenerateToken(key, 0, "", time.Hour)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":     expired,
		"wrong key":   foreign,
		"no subject":  anonymous,
		"not a token": "abc.def.ghi",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseToken(key, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
