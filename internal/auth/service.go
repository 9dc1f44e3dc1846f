package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/sweetshop-backend/internal/users"
	pkgAuth "github.com/angelmondragon/sweetshop-backend/pkg/auth"
	"github.com/angelmondragon/sweetshop-backend/pkg/auth/session"
	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/security"
	"github.com/google/uuid"
)

const (
	emailNotRegisteredMessage = "email is not registered"
	invalidCredentialsMessage = "invalid email or password"
	invalidRefreshMessage     = "invalid or expired refresh token"
)

// Service defines the behavior needed by the auth controllers and middleware.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Register(ctx context.Context, jti string, userID uuid.UUID) error
	Validate(ctx context.Context, jti string, userID uuid.UUID) error
	Rotate(ctx context.Context, oldJTI string, userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, jti string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
// SessionManager is optional; without it refresh tokens are stateless.
type ServiceParams struct {
	UserRepo         userRepository
	SessionManager   sessionManager
	JWTConfig        config.JWTConfig
	PasswordConfig   config.PasswordConfig
	AllowAdminSignup bool
}

type service struct {
	users            userRepository
	sessions         sessionManager
	jwtCfg           config.JWTConfig
	passwordCfg      config.PasswordConfig
	allowAdminSignup bool
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.JWTConfig.AccessSecret == "" || params.JWTConfig.RefreshSecret == "" {
		return nil, fmt.Errorf("jwt secrets are required")
	}
	return &service{
		users:            params.UserRepo,
		sessions:         params.SessionManager,
		jwtCfg:           params.JWTConfig,
		passwordCfg:      params.PasswordConfig,
		allowAdminSignup: params.AllowAdminSignup,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}

	role := req.Role
	if role == "" {
		role = enums.RoleCustomer
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]string{"role": "is invalid"})
	}
	if role.IsAdmin() && !s.allowAdminSignup {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin accounts cannot be self-registered")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		return nil, db.Classify(err, "", "email already registered", "create user")
	}
	return users.FromModel(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, db.Classify(err, emailNotRegisteredMessage, "", "lookup user")
	}
	if !user.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, emailNotRegisteredMessage)
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, invalidCredentialsMessage)
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	refreshID := session.NewRefreshID()
	if s.sessions != nil {
		if err := s.sessions.Register(ctx, refreshID, user.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh session")
		}
	}

	accessToken, refreshToken, err := s.mintPair(now, user, refreshID)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := pkgAuth.ParseRefreshToken(s.jwtCfg, strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidRefreshMessage)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidRefreshMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidRefreshMessage)
	}

	refreshID := claims.ID
	if s.sessions != nil {
		if s.jwtCfg.RotateRefresh {
			refreshID, err = s.sessions.Rotate(ctx, claims.ID, user.ID)
		} else {
			err = s.sessions.Validate(ctx, claims.ID, user.ID)
		}
		if err != nil {
			if errors.Is(err, session.ErrInvalidRefreshToken) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidRefreshMessage)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check refresh session")
		}
	} else if s.jwtCfg.RotateRefresh {
		refreshID = session.NewRefreshID()
	}

	now := time.Now().UTC()
	out := &Session{User: users.FromModel(user)}
	payload := pkgAuth.TokenPayload{UserID: user.ID, Email: user.Email, Role: user.Role}
	out.AccessToken, err = pkgAuth.MintAccessToken(s.jwtCfg, now, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if s.jwtCfg.RotateRefresh {
		payload.JTI = refreshID
		out.RefreshToken, err = pkgAuth.MintRefreshToken(s.jwtCfg, now, payload)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
		}
	}
	return out, nil
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if s.sessions == nil || strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	claims, err := pkgAuth.ParseRefreshToken(s.jwtCfg, strings.TrimSpace(refreshToken))
	if err != nil {
		// Expired or forged tokens have nothing left to revoke.
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke refresh session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, db.Classify(err, "user not found", "", "load user")
	}
	if !user.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is no longer active")
	}
	return users.FromModel(user), nil
}

func (s *service) mintPair(now time.Time, user *models.User, refreshID string) (string, string, error) {
	payload := pkgAuth.TokenPayload{UserID: user.ID, Email: user.Email, Role: user.Role}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, payload)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	payload.JTI = refreshID
	refreshToken, err := pkgAuth.MintRefreshToken(s.jwtCfg, now, payload)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}
	return accessToken, refreshToken, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
