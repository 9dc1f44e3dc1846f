package auth

import (
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes access and refresh tokens. Each kind is signed with its own secret.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
	// JTI is generated when empty.
	JTI string
}

// Claims represents the typed JWT issued to clients.
type Claims struct {
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email,omitempty"`
	Role   enums.Role `json:"role"`
	Kind   TokenKind  `json:"typ"`
	jwt.RegisteredClaims
}
