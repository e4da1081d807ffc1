package jwttoken

import (
	"github.com/google/uuid"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	authmw "foundry/pkg/platform/middleware/auth"
)

// JWTServiceAdapter bridges JWTService to the middleware's TokenValidator,
// converting string claims into typed IDs at the trust boundary.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role := id.Role(claims.Role)
	if !role.Valid() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	sessionID := id.SessionID{}
	if parsed, err := uuid.Parse(claims.SessionID); err == nil {
		sessionID = id.SessionID(parsed)
	}
	return &authmw.Claims{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
	}, nil
}
