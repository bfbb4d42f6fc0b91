package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateAccessToken(42, "chef@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "chef@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), Remaining(claims).Seconds(), 5)
}

func TestJWTService_TokenIDsAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	first, err := svc.GenerateAccessToken(1, "a@example.com")
	require.NoError(t, err)
	second, err := svc.GenerateAccessToken(1, "a@example.com")
	require.NoError(t, err)

	c1, err := svc.ValidateToken(first)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestJWTService_ValidateToken_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	otherKey, err := NewJWTService("other-secret", time.Hour).GenerateAccessToken(1, "a@example.com")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong key", token: otherKey},
		{name: "expired", token: expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	svc := NewJWTService("s", 0)
	assert.Equal(t, DefaultAccessTokenTTL, svc.ttl)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("testpass123")
	require.NoError(t, err)

	assert.NotEqual(t, "testpass123", hash)
	assert.True(t, CheckPassword(hash, "testpass123"))
	assert.False(t, CheckPassword(hash, "testpass123x"))
}
