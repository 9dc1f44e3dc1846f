package auth

import (
	"github.com/angelmondragon/sweetshop-backend/internal/users"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
)

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=255"`
	Email    string     `json:"email" validate:"required,email,max=255"`
	Password string     `json:"password" validate:"required,min=8,max=128"`
	Role     enums.Role `json:"role,omitempty" validate:"omitempty,oneof=customer admin"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest lets non-browser clients send the refresh token in the body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Session is returned by login and refresh. RefreshToken is empty when a refresh
// did not rotate the caller's refresh token.
type Session struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	User         *users.UserDTO `json:"user"`
}
