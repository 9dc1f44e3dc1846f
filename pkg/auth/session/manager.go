package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	redisclient "github.com/angelmondragon/sweetshop-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	RefreshSessionKey(jti string) string
}

// Manager tracks live refresh token identifiers so refresh tokens can be revoked
// and rotated before they expire.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", cfg.RefreshTTL, cfg.AccessTTL)
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.RefreshTTL,
	}, nil
}

// Register records a freshly minted refresh token identifier for the user.
func (m *Manager) Register(ctx context.Context, jti string, userID uuid.UUID) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("refresh id is required")
	}
	return m.store.Set(ctx, m.keyer.RefreshSessionKey(jti), userID.String(), m.ttl)
}

// Validate confirms the refresh identifier is live and belongs to the user.
func (m *Manager) Validate(ctx context.Context, jti string, userID uuid.UUID) error {
	if strings.TrimSpace(jti) == "" {
		return ErrInvalidRefreshToken
	}
	stored, err := m.store.Get(ctx, m.keyer.RefreshSessionKey(jti))
	if err != nil {
		return wrapNotFound(err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(userID.String())) != 1 {
		return ErrInvalidRefreshToken
	}
	return nil
}

// Rotate invalidates the old refresh identifier and registers a new one for the same user.
func (m *Manager) Rotate(ctx context.Context, oldJTI string, userID uuid.UUID) (string, error) {
	if err := m.Validate(ctx, oldJTI, userID); err != nil {
		return "", err
	}

	newJTI := NewRefreshID()
	if err := m.Register(ctx, newJTI, userID); err != nil {
		return "", err
	}
	if err := m.store.Del(ctx, m.keyer.RefreshSessionKey(oldJTI)); err != nil {
		return "", err
	}
	return newJTI, nil
}

// Revoke deletes the refresh mapping so the token can no longer be used.
func (m *Manager) Revoke(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("refresh id is required")
	}
	return m.store.Del(ctx, m.keyer.RefreshSessionKey(jti))
}

// NewRefreshID produces the identifier used as the refresh JWT jti and Redis key.
func NewRefreshID() string {
	return uuid.NewString()
}

func wrapNotFound(err error) error {
	if errors.Is(err, redislib.Nil) || errors.Is(err, ErrInvalidRefreshToken) {
		return ErrInvalidRefreshToken
	}
	return err
}
