package auth

import (
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Email    string
	RoleID   uuid.UUID
	RoleName enums.RoleName
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"userId"`
	Email    string         `json:"email"`
	RoleID   uuid.UUID      `json:"roleId"`
	RoleName enums.RoleName `json:"roleName"`
	jwt.RegisteredClaims
}
