package restocks

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

const sweetNotFoundMessage = "Sweet not found"

// Service tops up stock and reads restock history.
type Service interface {
	Restock(ctx context.Context, adminID, sweetID uuid.UUID, req Request) (*Result, error)
	ListBySweet(ctx context.Context, sweetID uuid.UUID, params pagination.Params) (pagination.Page[RestockDTO], error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build a restocks service.
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

// NewService constructs the restocks service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("restock repository required")
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

func (s *service) Restock(ctx context.Context, adminID, sweetID uuid.UUID, req Request) (*Result, error) {
	if req.Quantity < 1 || req.Quantity > MaxQuantity {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be between 1 and %d", MaxQuantity).
			WithDetails(map[string]string{"quantity": fmt.Sprintf("must be between 1 and %d", MaxQuantity)})
	}

	var (
		record      models.Restock
		newQuantity int
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		sweetRepo := s.sweets.WithTx(tx)
		active := visibility.Resolve(enums.RoleCustomer, visibility.Filter{})

		ok, err := sweetRepo.IncrementStock(ctx, sweetID, req.Quantity, sweets.MaxQuantity)
		if err != nil {
			return err
		}
		if !ok {
			// Missing or inactive sweets surface as not found; otherwise the ceiling was hit.
			if _, err := sweetRepo.FindByID(ctx, sweetID, active); err != nil {
				return err
			}
			return pkgerrors.Newf(pkgerrors.CodeBadRequest, "restock would exceed the maximum quantity of %d", sweets.MaxQuantity)
		}

		// The row stays locked by the increment until commit, so this read is the stored count.
		updated, err := sweetRepo.FindByID(ctx, sweetID, active)
		if err != nil {
			return err
		}

		record = models.Restock{SweetID: sweetID, AdminID: adminID, Quantity: req.Quantity}
		if err := s.repo.WithTx(tx).Create(ctx, &record); err != nil {
			return err
		}
		newQuantity = updated.Quantity
		return nil
	})
	if err != nil {
		return nil, db.Classify(err, sweetNotFoundMessage, "", "restock sweet")
	}
	s.metrics.Restocked(req.Quantity)
	return &Result{Restock: *FromModel(&record), NewQuantity: newQuantity}, nil
}

func (s *service) ListBySweet(ctx context.Context, sweetID uuid.UUID, params pagination.Params) (pagination.Page[RestockDTO], error) {
	if err := sortSpec.Check(params); err != nil {
		return pagination.Page[RestockDTO]{}, err
	}
	if _, err := s.sweets.FindByID(ctx, sweetID, visibility.ForLookup(enums.RoleAdmin)); err != nil {
		return pagination.Page[RestockDTO]{}, db.Classify(err, sweetNotFoundMessage, "", "load sweet")
	}
	params = params.Normalized(s.defaultLimit, s.maxLimit)

	rows, total, err := s.repo.ListBySweet(ctx, sweetID, params)
	if err != nil {
		return pagination.Page[RestockDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list restocks")
	}
	items := make([]RestockDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}
