package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-signing-key", time.Hour)
	userID := id.NewUserID()

	token, err := service.GenerateToken(userID, id.RoleStartupOwner)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, string(id.RoleStartupOwner), claims.Role)
	assert.NotEmpty(t, claims.SessionID)
}

func TestExpiredTokenRejected(t *testing.T) {
	service := NewJWTService("test-signing-key", -time.Minute)

	token, err := service.GenerateToken(id.NewUserID(), id.RoleUser)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func TestTokenSignedWithDifferentKeyRejected(t *testing.T) {
	issuer := NewJWTService("key-one", time.Hour)
	verifier := NewJWTService("key-two", time.Hour)

	token, err := issuer.GenerateToken(id.NewUserID(), id.RoleUser)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestGarbageTokenRejected(t *testing.T) {
	service := NewJWTService("test-signing-key", time.Hour)

	_, err := service.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestAdapterProducesTypedClaims(t *testing.T) {
	service := NewJWTService("test-signing-key", time.Hour)
	adapter := NewJWTServiceAdapter(service)
	userID := id.NewUserID()

	token, err := service.GenerateToken(userID, id.RoleAdmin)
	require.NoError(t, err)

	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, id.RoleAdmin, claims.Role)
}
