package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/google/uuid"
)

const userNotFoundMessage = "user not found"

// Service exposes the admin user-management operations.
type Service interface {
	List(ctx context.Context, query ListQuery) (pagination.Page[UserDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, params pagination.Params, search string) ([]models.User, int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name *string, role *enums.Role) error
	SetStatus(ctx context.Context, id uuid.UUID, status enums.LifecycleStatus) (bool, error)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo         userRepository
	DefaultLimit int
	MaxLimit     int
}

type service struct {
	repo         userRepository
	defaultLimit int
	maxLimit     int
}

// NewService constructs the admin users service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		repo:         params.Repo,
		defaultLimit: params.DefaultLimit,
		maxLimit:     params.MaxLimit,
	}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (pagination.Page[UserDTO], error) {
	params := pagination.Params{Page: query.Page, Limit: query.Limit}.Normalized(s.defaultLimit, s.maxLimit)
	rows, total, err := s.repo.List(ctx, params, query.Search)
	if err != nil {
		return pagination.Page[UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	items := make([]UserDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, userNotFoundMessage, "", "load user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	if req.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").WithDetails(map[string]string{"name": "is required"})
		}
		req.Name = &name
	}
	if req.Role != nil && !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]string{"role": "is invalid"})
	}
	if actorID == id {
		if req.Role != nil && *req.Role != enums.RoleAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "admins cannot demote themselves")
		}
		if req.IsActive != nil && !*req.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "admins cannot deactivate themselves")
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, userNotFoundMessage, "", "load user")
	}

	if req.Name != nil || req.Role != nil {
		if err := s.repo.UpdateProfile(ctx, user.ID, req.Name, req.Role); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
		}
	}
	if req.IsActive != nil {
		target := enums.LifecycleStatusDeleted
		if *req.IsActive {
			target = enums.LifecycleStatusActive
		}
		if user.Status != target {
			if _, err := s.repo.SetStatus(ctx, user.ID, target); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user status")
			}
		}
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeBadRequest, "admins cannot delete themselves")
	}
	moved, err := s.repo.SetStatus(ctx, id, enums.LifecycleStatusDeleted)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if !moved {
		return pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
	}
	return nil
}
