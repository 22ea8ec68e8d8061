package auth

import (
	"github.com/angelmondragon/juniorgolf-backend/internal/users"
)

// RegisterRequest contains the payload required to open a parent account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to redeem or revoke.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateProfileRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type SetPinRequest struct {
	Pin string `json:"pin" validate:"required,pin"`
}

type VerifyPinRequest struct {
	Pin string `json:"pin" validate:"required,pin"`
}

type ChangePinRequest struct {
	CurrentPin string `json:"currentPin" validate:"required,pin"`
	NewPin     string `json:"newPin" validate:"required,pin"`
}

// TokenPair is the credential bundle issued at login, registration and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// AuthResponse contains the user and tokens produced by register and login.
type AuthResponse struct {
	User   *users.UserDTO `json:"user"`
	Tokens TokenPair      `json:"tokens"`
}

type PinStatus struct {
	HasPin bool `json:"hasPin"`
}
