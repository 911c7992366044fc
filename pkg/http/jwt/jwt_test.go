package jwt

import (
	"testing"
	"time"

	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenAndParseToken(t *testing.T) {
	userId := "u-1001"
	secretKey := "bf284d03-ba65-42d4-a9fe-0d2fbfe61060"

	aToken, rToken, err := GenToken(userId, []byte(secretKey), 30, 10080)
	require.NoError(t, err)
	require.NotEmpty(t, aToken)
	require.NotEmpty(t, rToken)

	claims, err := ParseToken(aToken, secretKey)
	require.NoError(t, err)
	assert.Equal(t, userId, claims.UserId)
	assert.Equal(t, "taskhub", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseTokenWrongKey(t *testing.T) {
	aToken, _, err := GenToken("u-1001", []byte("secret-a"), 30, 60)
	require.NoError(t, err)

	_, err = ParseToken(aToken, "secret-b")
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	secretKey := "bf284d03-ba65-42d4-a9fe-0d2fbfe61060"
	auth := &httpx.Auth{
		SecretKey:     secretKey,
		AccessExpire:  30,
		RefreshExpire: 10080,
	}

	_, rToken, err := GenToken("u-1001", []byte(secretKey), 30, 10080)
	require.NoError(t, err)

	pair, err := RefreshToken(auth, "u-1001", rToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair["accessToken"])
	assert.NotEmpty(t, pair["refreshToken"])

	claims, err := ParseToken(pair["accessToken"], secretKey)
	require.NoError(t, err)
	assert.Equal(t, "u-1001", claims.UserId)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	auth := &httpx.Auth{SecretKey: "secret-a", AccessExpire: 30, RefreshExpire: 60}

	_, err := RefreshToken(auth, "u-1001", "not-a-token")
	assert.Error(t, err)
}
