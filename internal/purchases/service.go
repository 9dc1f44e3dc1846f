package purchases

import (
	"context"
	"fmt"

	"github.com/angelmondragon/sweetshop-backend/internal/sweets"
	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/metrics"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	notFoundMessage      = "Purchase not found"
	sweetNotFoundMessage = "Sweet not found"
	insufficientMessage  = "insufficient quantity"
	forbiddenMessage     = "You are not authorized to view this purchase"
)

// Service records and reads purchases.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateRequest) (*PurchaseDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*PurchaseDTO, error)
	List(ctx context.Context, actor Actor, query ListQuery) (pagination.Page[PurchaseDTO], error)
	ListByUser(ctx context.Context, actor Actor, userID uuid.UUID, query ListQuery) (pagination.Page[PurchaseDTO], error)
	ListBySweet(ctx context.Context, actor Actor, sweetID uuid.UUID, query ListQuery) (pagination.Page[PurchaseDTO], error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build a purchases service.
type ServiceParams struct {
	Tx           txRunner
	Repo         *Repository
	Sweets       *sweets.Repository
	Metrics      *metrics.InventoryMetrics
	DefaultLimit int
	MaxLimit     int
}

type service struct {
	tx           txRunner
	repo         *Repository
	sweets       *sweets.Repository
	metrics      *metrics.InventoryMetrics
	defaultLimit int
	maxLimit     int
}

// NewService constructs the purchases service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if params.Sweets == nil {
		return nil, fmt.Errorf("sweet repository required")
	}
	return &service{
		tx:           params.Tx,
		repo:         params.Repo,
		sweets:       params.Sweets,
		metrics:      params.Metrics,
		defaultLimit: params.DefaultLimit,
		maxLimit:     params.MaxLimit,
	}, nil
}

// Create decrements stock and records the purchase in one transaction. The stock
// guard lives in the UPDATE itself.
func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (*PurchaseDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.SweetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sweetId is required").
			WithDetails(map[string]string{"sweetId": "is required"})
	}
	if req.Quantity < 1 || req.Quantity > MaxQuantity {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be between 1 and %d", MaxQuantity).
			WithDetails(map[string]string{"quantity": fmt.Sprintf("must be between 1 and %d", MaxQuantity)})
	}

	var purchaseID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		sweetRepo := s.sweets.WithTx(tx)
		ok, err := sweetRepo.DecrementStock(ctx, req.SweetID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return classifyRejected(ctx, sweetRepo, req.SweetID)
		}

		purchase := &models.Purchase{
			UserID:   actor.UserID,
			SweetID:  req.SweetID,
			Quantity: req.Quantity,
		}
		if err := s.repo.WithTx(tx).Create(ctx, purchase); err != nil {
			return err
		}
		purchaseID = purchase.ID
		return nil
	})
	if err != nil {
		s.metrics.PurchaseRejected(rejectionReason(err))
		return nil, db.Classify(err, sweetNotFoundMessage, "", "record purchase")
	}
	s.metrics.PurchaseSucceeded(req.Quantity)

	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, "", "load purchase")
	}
	return FromModel(purchase), nil
}

func classifyRejected(ctx context.Context, repo *sweets.Repository, sweetID uuid.UUID) error {
	active := visibility.Resolve(enums.RoleCustomer, visibility.Filter{})
	if _, err := repo.FindByID(ctx, sweetID, active); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, sweetNotFoundMessage)
		}
		return err
	}
	return pkgerrors.New(pkgerrors.CodeBadRequest, insufficientMessage)
}

func rejectionReason(err error) string {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeBadRequest:
		return "insufficient_stock"
	default:
		return "error"
	}
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*PurchaseDTO, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, notFoundMessage, "", "load purchase")
	}
	if !actor.Role.IsAdmin() && purchase.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage)
	}
	return FromModel(purchase), nil
}

func (s *service) List(ctx context.Context, actor Actor, query ListQuery) (pagination.Page[PurchaseDTO], error) {
	if !actor.Role.IsAdmin() {
		if query.UserID != nil && *query.UserID != actor.UserID {
			return pagination.Page[PurchaseDTO]{}, pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage)
		}
		query.UserID = &actor.UserID
	}
	return s.list(ctx, query)
}

func (s *service) ListByUser(ctx context.Context, actor Actor, userID uuid.UUID, query ListQuery) (pagination.Page[PurchaseDTO], error) {
	if !actor.Role.IsAdmin() && userID != actor.UserID {
		return pagination.Page[PurchaseDTO]{}, pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage)
	}
	query.UserID = &userID
	return s.list(ctx, query)
}

func (s *service) ListBySweet(ctx context.Context, actor Actor, sweetID uuid.UUID, query ListQuery) (pagination.Page[PurchaseDTO], error) {
	if !actor.Role.IsAdmin() {
		return pagination.Page[PurchaseDTO]{}, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	query.SweetID = &sweetID
	return s.list(ctx, query)
}

func (s *service) list(ctx context.Context, query ListQuery) (pagination.Page[PurchaseDTO], error) {
	if err := sortSpec.Check(query.Params); err != nil {
		return pagination.Page[PurchaseDTO]{}, err
	}
	if query.StartDate != nil && query.EndDate != nil && query.StartDate.After(*query.EndDate) {
		return pagination.Page[PurchaseDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "startDate must be before endDate").
			WithDetails(map[string]string{"startDate": "must be before endDate"})
	}
	params := query.Params.Normalized(s.defaultLimit, s.maxLimit)

	rows, total, err := s.repo.List(ctx, params, query.Filter)
	if err != nil {
		return pagination.Page[PurchaseDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list purchases")
	}
	items := make([]PurchaseDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}
