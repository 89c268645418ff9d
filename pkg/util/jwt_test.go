package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func adminSubject() TokenSubject {
	return TokenSubject{
		ID:       7,
		Username: "root",
		Email:    "root@example.com",
		Role:     "superAdmin",
		UserType: UserTypeAdmin,
	}
}

func TestGenerateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken(adminSubject(), testSecret, 15*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)
}

func TestValidateToken(t *testing.T) {
	token, _, err := GenerateToken(adminSubject(), testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: token, secret: testSecret},
		{name: "Invalid secret", token: token, secret: "wrong-secret", wantErr: ErrInvalidToken},
		{name: "Invalid token format", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(7), claims.ID)
			assert.Equal(t, "root", claims.Username)
			assert.Equal(t, "root@example.com", claims.Email)
			assert.Equal(t, "superAdmin", claims.Role)
			assert.Equal(t, UserTypeAdmin, claims.UserType)
			assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, _, err := GenerateToken(adminSubject(), testSecret, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestGenerateOrderReference(t *testing.T) {
	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	a := GenerateOrderReference(now)
	b := GenerateOrderReference(now)

	assert.Regexp(t, `^ORD-20260131-[0-9A-F]{8}$`, a)
	assert.NotEqual(t, a, b)
}
