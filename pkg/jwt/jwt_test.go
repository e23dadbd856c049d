package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokenPair(t *testing.T) {
	service := NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	userID := uuid.New()

	pair, err := service.GenerateTokenPair(userID, "maria@example.com", "member")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := service.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "maria@example.com", claims.Email)
	require.Equal(t, "member", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	other := NewJWTService("other-secret", 15*time.Minute, 24*time.Hour)

	pair, err := service.GenerateTokenPair(uuid.New(), "maria@example.com", "member")
	require.NoError(t, err)

	_, err = other.ValidateToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	service := NewJWTService("test-secret", -time.Minute, 24*time.Hour)

	pair, err := service.GenerateTokenPair(uuid.New(), "maria@example.com", "member")
	require.NoError(t, err)

	_, err = service.ValidateToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestGenerateTokenPair_SignError(t *testing.T) {
	original := signJWTToken
	defer func() { signJWTToken = original }()
	signJWTToken = func(*gojwt.Token, []byte) (string, error) {
		return "", errors.New("sign failure")
	}

	service := NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	_, err := service.GenerateTokenPair(uuid.New(), "maria@example.com", "member")
	require.Error(t, err)
}
