package sweets

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
	"github.com/shopspring/decimal"
)

const (
	notFoundMessage         = "Sweet not found"
	nameTakenMessage        = "Sweet name already exists"
	categoryNotFoundMessage = "Category not found"
	categoryInactiveMessage = "Category is not active"
)

// Service exposes sweet catalog operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*SweetDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*SweetDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) (*SweetDTO, error)
	List(ctx context.Context, role enums.Role, query ListQuery) (pagination.Page[SweetDTO], error)
	Search(ctx context.Context, role enums.Role, query SearchQuery) ([]SweetDTO, error)
	ListByCategory(ctx context.Context, role enums.Role, categoryID uuid.UUID, query ListQuery) (pagination.Page[SweetDTO], error)
	Get(ctx context.Context, role enums.Role, id uuid.UUID) (*SweetDTO, error)
}

type sweetRepository interface {
	Create(ctx context.Context, sweet *models.Sweet) error
	FindByID(ctx context.Context, id uuid.UUID, pred visibility.Predicate) (*models.Sweet, error)
	NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.LifecycleStatus) (bool, error)
	List(ctx context.Context, params pagination.Params, filter Filter, pred visibility.Predicate) ([]models.Sweet, int64, error)
	Search(ctx context.Context, q string, filter Filter, pred visibility.Predicate, limit int) ([]models.Sweet, error)
}

type categoryLookup interface {
	FindByID(ctx context.Context, id uuid.UUID, pred visibility.Predicate) (*models.Category, error)
}

// ServiceParams bundles the dependencies required to build a sweets service.
type ServiceParams struct {
	Repo         sweetRepository
	Categories   categoryLookup
	DefaultLimit int
	MaxLimit     int
}

type service struct {
	repo         sweetRepository
	categories   categoryLookup
	defaultLimit int
	maxLimit     int
}

// NewService constructs the sweets service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("sweet repository is required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category lookup is required")
	}
	return &service{
		repo:         params.Repo,
		categories:   params.Categories,
		defaultLimit: params.DefaultLimit,
		maxLimit:     params.MaxLimit,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*SweetDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fieldError("name", "is required")
	}
	price, err := checkPrice(req.Price)
	if err != nil {
		return nil, err
	}
	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.ensureCategoryUsable(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	sweet := &models.Sweet{
		Name:       name,
		CategoryID: req.CategoryID,
		Price:      price,
		Quantity:   quantity,
		Status:     enums.LifecycleStatusActive,
	}
	if err := s.repo.Create(ctx, sweet); err != nil {
		return nil, db.Classify(err, notFoundMessage, nameTakenMessage, "create sweet")
	}
	return s.Get(ctx, enums.RoleAdmin, sweet.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*SweetDTO, error) {
	if req.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided for update")
	}
	current, err := s.repo.FindByID(ctx, id, visibility.ForLookup(enums.RoleAdmin))
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, "", "load sweet")
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fieldError("name", "is required")
		}
		if name != current.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		fields["name"] = name
	}
	if req.CategoryID != nil && *req.CategoryID != current.CategoryID {
		if err := s.ensureCategoryUsable(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *req.CategoryID
	}
	if req.Price != nil {
		price, err := checkPrice(*req.Price)
		if err != nil {
			return nil, err
		}
		fields["price"] = price
	}
	if req.Quantity != nil {
		if err := checkQuantity(*req.Quantity); err != nil {
			return nil, err
		}
		fields["quantity"] = *req.Quantity
	}

	ok, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, nameTakenMessage, "update sweet")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return s.Get(ctx, enums.RoleAdmin, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	moved, err := s.repo.SetStatus(ctx, id, enums.LifecycleStatusDeleted)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete sweet")
	}
	if !moved {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return nil
}

func (s *service) Reactivate(ctx context.Context, id uuid.UUID) (*SweetDTO, error) {
	current, err := s.repo.FindByID(ctx, id, visibility.ForLookup(enums.RoleAdmin))
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, "", "load sweet")
	}
	if current.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	if err := s.ensureNameFree(ctx, current.Name, id); err != nil {
		return nil, err
	}

	moved, err := s.repo.SetStatus(ctx, id, enums.LifecycleStatusActive)
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, nameTakenMessage, "reactivate sweet")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return s.Get(ctx, enums.RoleAdmin, id)
}

func (s *service) List(ctx context.Context, role enums.Role, query ListQuery) (pagination.Page[SweetDTO], error) {
	if err := sortSpec.Check(query.Params); err != nil {
		return pagination.Page[SweetDTO]{}, err
	}
	if err := checkPriceRange(query.Filter); err != nil {
		return pagination.Page[SweetDTO]{}, err
	}
	params := query.Params.Normalized(s.defaultLimit, s.maxLimit)

	rows, total, err := s.repo.List(ctx, params, query.Filter, visibility.Resolve(role, query.Visibility))
	if err != nil {
		return pagination.Page[SweetDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sweets")
	}
	return pagination.NewPage(toDTOs(rows), params, total), nil
}

func (s *service) Search(ctx context.Context, role enums.Role, query SearchQuery) ([]SweetDTO, error) {
	q := strings.TrimSpace(query.Q)
	if q == "" {
		return nil, fieldError("q", "is required")
	}
	if err := checkPriceRange(query.Filter); err != nil {
		return nil, err
	}
	rows, err := s.repo.Search(ctx, q, query.Filter, visibility.Resolve(role, query.Visibility), SearchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search sweets")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByCategory(ctx context.Context, role enums.Role, categoryID uuid.UUID, query ListQuery) (pagination.Page[SweetDTO], error) {
	if _, err := s.categories.FindByID(ctx, categoryID, visibility.ForLookup(role)); err != nil {
		return pagination.Page[SweetDTO]{}, db.Classify(err, categoryNotFoundMessage, "", "load category")
	}
	query.CategoryID = &categoryID
	return s.List(ctx, role, query)
}

func (s *service) Get(ctx context.Context, role enums.Role, id uuid.UUID) (*SweetDTO, error) {
	sweet, err := s.repo.FindByID(ctx, id, visibility.ForLookup(role))
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, "", "load sweet")
	}
	return FromModel(sweet), nil
}

func (s *service) ensureCategoryUsable(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return fieldError("categoryId", "is required")
	}
	category, err := s.categories.FindByID(ctx, categoryID, visibility.ForLookup(enums.RoleAdmin))
	if err != nil {
		return db.Classify(err, categoryNotFoundMessage, "", "load category")
	}
	if !category.IsActive() {
		return pkgerrors.New(pkgerrors.CodeBadRequest, categoryInactiveMessage)
	}
	return nil
}

func (s *service) ensureNameFree(ctx context.Context, name string, excludeID uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sweet name")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, nameTakenMessage)
	}
	return nil
}

func checkPrice(price decimal.Decimal) (decimal.Decimal, error) {
	price = NormalizePrice(price)
	if !price.IsPositive() {
		return decimal.Zero, fieldError("price", "must be greater than 0")
	}
	if price.GreaterThan(MaxPrice) {
		return decimal.Zero, fieldError("price", "must be at most "+MaxPrice.StringFixed(2))
	}
	return price, nil
}

func checkQuantity(quantity int) error {
	if quantity < 0 || quantity > MaxQuantity {
		return fieldError("quantity", fmt.Sprintf("must be between 0 and %d", MaxQuantity))
	}
	return nil
}

func checkPriceRange(f Filter) error {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return fieldError("minPrice", "must be less than or equal to maxPrice")
	}
	return nil
}

func fieldError(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, field+" "+msg).WithDetails(map[string]string{field: msg})
}

func toDTOs(rows []models.Sweet) []SweetDTO {
	items := make([]SweetDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items
}
