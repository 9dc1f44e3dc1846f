package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrWrongTokenKind is returned when a refresh token is presented as an access token or vice versa.
var ErrWrongTokenKind = errors.New("token kind mismatch")

// MintAccessToken issues a short-lived access JWT signed with the access secret.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg.AccessSecret, cfg.Issuer, cfg.AccessTTL, TokenKindAccess, now, payload)
}

// MintRefreshToken issues a long-lived refresh JWT signed with the refresh secret.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg.RefreshSecret, cfg.Issuer, cfg.RefreshTTL, TokenKindRefresh, now, payload)
}

// ParseAccessToken validates the access JWT and returns typed claims. Expired tokens
// fail with an error matching jwt.ErrTokenExpired.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg.AccessSecret, cfg.Issuer, TokenKindAccess, tokenString)
}

// ParseRefreshToken validates the refresh JWT and returns typed claims.
func ParseRefreshToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg.RefreshSecret, cfg.Issuer, TokenKindRefresh, tokenString)
}

// IsExpired reports whether a parse failure was caused only by expiry.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func mint(secret, issuer string, ttl time.Duration, kind TokenKind, now time.Time, payload TokenPayload) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("jwt ttl must be positive")
	}
	if payload.UserID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := Claims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

func parse(secret, issuer string, kind TokenKind, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	if claims.UserID == uuid.Nil || !claims.Role.IsValid() {
		return nil, fmt.Errorf("token is missing identity claims")
	}
	return claims, nil
}
