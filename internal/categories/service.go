package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/google/uuid"
)

const (
	notFoundMessage  = "Category not found"
	nameTakenMessage = "Category name already exists"
)

// Service exposes category catalog operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	List(ctx context.Context, role enums.Role, query ListQuery) (pagination.Page[CategoryDTO], error)
	Get(ctx context.Context, role enums.Role, id uuid.UUID) (*CategoryDTO, error)
	ListActive(ctx context.Context) ([]Option, error)
}

type categoryRepository interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID, pred visibility.Predicate) (*models.Category, error)
	NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.LifecycleStatus) (bool, error)
	List(ctx context.Context, params pagination.Params, filter Filter, pred visibility.Predicate) ([]models.Category, int64, error)
	ListActive(ctx context.Context) ([]Option, error)
}

// ServiceParams bundles the dependencies required to build a categories service.
type ServiceParams struct {
	Repo         categoryRepository
	DefaultLimit int
	MaxLimit     int
}

type service struct {
	repo         categoryRepository
	defaultLimit int
	maxLimit     int
}

// NewService constructs the categories service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	return &service{
		repo:         params.Repo,
		defaultLimit: params.DefaultLimit,
		maxLimit:     params.MaxLimit,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}
	category, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, nameTakenMessage, "create category")
	}
	return FromModel(category), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*CategoryDTO, error) {
	if req.Name == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided for update")
	}
	if _, err := s.repo.FindByID(ctx, id, visibility.ForLookup(enums.RoleAdmin)); err != nil {
		return nil, db.Classify(err, notFoundMessage, "", "load category")
	}

	name := strings.TrimSpace(*req.Name)
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, nameTakenMessage, "update category")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return s.Get(ctx, enums.RoleAdmin, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	moved, err := s.repo.SetStatus(ctx, id, enums.LifecycleStatusDeleted)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	if !moved {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return nil
}

func (s *service) Reactivate(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	moved, err := s.repo.SetStatus(ctx, id, enums.LifecycleStatusActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reactivate category")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return s.Get(ctx, enums.RoleAdmin, id)
}

func (s *service) List(ctx context.Context, role enums.Role, query ListQuery) (pagination.Page[CategoryDTO], error) {
	if err := sortSpec.Check(query.Params); err != nil {
		return pagination.Page[CategoryDTO]{}, err
	}
	params := query.Params.Normalized(s.defaultLimit, s.maxLimit)
	pred := visibility.Resolve(role, query.Visibility)

	rows, total, err := s.repo.List(ctx, params, Filter{Name: query.Name, Search: query.Search}, pred)
	if err != nil {
		return pagination.Page[CategoryDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	items := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) Get(ctx context.Context, role enums.Role, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id, visibility.ForLookup(role))
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, "", "load category")
	}
	return FromModel(category), nil
}

func (s *service) ListActive(ctx context.Context) ([]Option, error) {
	options, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active categories")
	}
	if options == nil {
		options = []Option{}
	}
	return options, nil
}

func (s *service) ensureNameFree(ctx context.Context, name string, excludeID uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category name")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, nameTakenMessage)
	}
	return nil
}
