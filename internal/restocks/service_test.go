package restocks

import (
	"context"
	"testing"

	"github.com/angelmondragon/sweetshop-backend/internal/categories"
	"github.com/angelmondragon/sweetshop-backend/internal/sweets"
	"github.com/angelmondragon/sweetshop-backend/internal/users"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setup(t *testing.T, qty int) (Service, *gorm.DB, uuid.UUID, *models.Sweet) {
	t.Helper()
	ctx := context.Background()
	client, conn := dbtest.Client(t)
	sweetRepo := sweets.NewRepository(conn)

	admin, err := users.NewRepository(conn).Create(ctx, users.CreateUserDTO{
		Name: "Admin", Email: "admin@example.com", PasswordHash: "h", Role: enums.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	category, err := categories.NewRepository(conn).Create(ctx, "Bonbons")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	sweet := &models.Sweet{Name: "Cherry Bonbon", CategoryID: category.ID, Price: decimal.NewFromInt(1), Quantity: qty}
	if err := sweetRepo.Create(ctx, sweet); err != nil {
		t.Fatalf("seed sweet: %v", err)
	}

	svc, err := NewService(ServiceParams{Tx: client, Repo: NewRepository(conn), Sweets: sweetRepo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn, admin.ID, sweet
}

func TestRestockIncrementsAndRecordsHistory(t *testing.T) {
	svc, _, adminID, sweet := setup(t, 2)
	ctx := context.Background()

	res, err := svc.Restock(ctx, adminID, sweet.ID, Request{Quantity: 8})
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if res.NewQuantity != 10 || res.Restock.AdminID != adminID || res.Restock.Quantity != 8 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := svc.Restock(ctx, adminID, sweet.ID, Request{Quantity: 5}); err != nil {
		t.Fatalf("second restock: %v", err)
	}

	page, err := svc.ListBySweet(ctx, sweet.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.Total != 2 || page.Meta.Page != 1 || page.Meta.Limit != 20 {
		t.Fatalf("unexpected meta %+v", page.Meta)
	}
	if page.Items[0].Admin == nil || page.Items[0].Admin.Email != "admin@example.com" {
		t.Fatalf("expected admin summary, got %+v", page.Items[0])
	}
}

func TestRestockRejections(t *testing.T) {
	svc, conn, adminID, sweet := setup(t, sweets.MaxQuantity-5)
	ctx := context.Background()

	for _, qty := range []int{0, MaxQuantity + 1} {
		if _, err := svc.Restock(ctx, adminID, sweet.ID, Request{Quantity: qty}); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
			t.Fatalf("quantity %d: expected validation error, got %v", qty, err)
		}
	}
	if _, err := svc.Restock(ctx, adminID, sweet.ID, Request{Quantity: 6}); !pkgerrors.Is(err, pkgerrors.CodeBadRequest) {
		t.Fatalf("expected ceiling bad request, got %v", err)
	}
	if _, err := svc.Restock(ctx, adminID, uuid.New(), Request{Quantity: 1}); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := sweets.NewRepository(conn).SetStatus(ctx, sweet.ID, enums.LifecycleStatusDeleted); err != nil {
		t.Fatalf("delete sweet: %v", err)
	}
	if _, err := svc.Restock(ctx, adminID, sweet.ID, Request{Quantity: 1}); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("deleted sweet should be not found, got %v", err)
	}

	var count int64
	if err := conn.Model(&models.Restock{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected restocks must not be recorded, got %d", count)
	}
}

func TestRestockReportsStoredQuantityAfterConcurrentSale(t *testing.T) {
	svc, conn, adminID, sweet := setup(t, 10)
	ctx := context.Background()

	// A sale lands on the same row right before the restock's update runs.
	sold := false
	err := conn.Callback().Update().Before("gorm:update").Register("test:concurrent_sale", func(d *gorm.DB) {
		if sold || d.Statement.Table != "sweets" {
			return
		}
		sold = true
		if err := d.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE sweets SET quantity = quantity - 3 WHERE id = ?", sweet.ID).Error; err != nil {
			d.AddError(err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	res, err := svc.Restock(ctx, adminID, sweet.ID, Request{Quantity: 5})
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if !sold {
		t.Fatalf("expected the sale to run inside the restock")
	}

	var stored models.Sweet
	if err := conn.First(&stored, "id = ?", sweet.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Quantity != 12 || res.NewQuantity != stored.Quantity {
		t.Fatalf("expected reported quantity to match stored 12, got reported=%d stored=%d", res.NewQuantity, stored.Quantity)
	}
}
