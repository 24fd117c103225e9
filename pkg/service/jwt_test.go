package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "academy-admin/pkg/errors"
)

func newTestJWTService(accessTTL, refreshTTL time.Duration) JWTService {
	return NewJWTService("test-secret", accessTTL, refreshTTL, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)

	subject := TokenSubject{
		UserID:          "f7f0b2d4-0000-4000-8000-000000000001",
		Email:           "manager@academy.local",
		Role:            RoleBranchManager,
		ManagedBranches: []string{"b1", "b2"},
	}

	accessToken, refreshToken, err := svc.GenerateTokens(subject)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.UserID, claims.UserID)
	assert.Equal(t, subject.Email, claims.Email)
	assert.Equal(t, RoleBranchManager, claims.Role)
	assert.Equal(t, []string{"b1", "b2"}, claims.ManagedBranches)
	assert.False(t, claims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
	assert.Equal(t, subject.UserID, refreshClaims.UserID)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestJWTService(-time.Minute, -time.Minute)

	accessToken, _, err := svc.GenerateTokens(TokenSubject{UserID: "u1", Role: RoleSuperAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newTestJWTService(time.Hour, time.Hour)
	other := NewJWTService("another-secret", time.Hour, time.Hour, zap.NewNop())

	accessToken, _, err := svc.GenerateTokens(TokenSubject{UserID: "u1", Role: RoleSuperAdmin})
	require.NoError(t, err)

	_, err = other.ValidateToken(accessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newTestJWTService(time.Hour, time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
