package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/sweetshop-backend/internal/categories"
	"github.com/angelmondragon/sweetshop-backend/internal/sweets"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
)

type stubCategoryService struct {
	categories.Service
	role  enums.Role
	query categories.ListQuery
}

func (s *stubCategoryService) List(_ context.Context, role enums.Role, query categories.ListQuery) (pagination.Page[categories.CategoryDTO], error) {
	s.role, s.query = role, query
	return pagination.NewPage[categories.CategoryDTO](nil, query.Params, 0), nil
}

func (s *stubCategoryService) ListActive(_ context.Context) ([]categories.Option, error) {
	return []categories.Option{{ID: uuid.New(), Name: "Chocolates"}}, nil
}

type stubSweetService struct {
	sweets.Service
	role    enums.Role
	query   sweets.ListQuery
	search  sweets.SearchQuery
	created sweets.CreateRequest
}

func (s *stubSweetService) List(_ context.Context, role enums.Role, query sweets.ListQuery) (pagination.Page[sweets.SweetDTO], error) {
	s.role, s.query = role, query
	return pagination.NewPage[sweets.SweetDTO](nil, query.Params, 0), nil
}

func (s *stubSweetService) Search(_ context.Context, role enums.Role, query sweets.SearchQuery) ([]sweets.SweetDTO, error) {
	s.role, s.search = role, query
	return []sweets.SweetDTO{}, nil
}

func (s *stubSweetService) Create(_ context.Context, req sweets.CreateRequest) (*sweets.SweetDTO, error) {
	s.created = req
	return &sweets.SweetDTO{ID: uuid.New(), Name: req.Name}, nil
}

func TestCategoryListPassesRoleAndFilters(t *testing.T) {
	svc := &stubCategoryService{}
	handler := CategoryList(svc, 100, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodGet, "/api/sweet/category?includeDeleted=true&search=choc", nil, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.role != "" {
		t.Fatalf("anonymous callers should carry no role, got %q", svc.role)
	}
	if !svc.query.Visibility.IncludeDeleted || svc.query.Search != "choc" {
		t.Fatalf("filters should reach the service verbatim, got %+v", svc.query)
	}
}

func TestCategoryListActive(t *testing.T) {
	handler := CategoryListActive(&stubCategoryService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodGet, "/api/sweet/category/active/list", nil, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Chocolates") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestSweetListParsesFilters(t *testing.T) {
	svc := &stubSweetService{}
	handler := SweetList(svc, 100, nil)
	categoryID := uuid.New()

	target := "/api/sweets?categoryId=" + categoryID.String() + "&minPrice=1.50&maxPrice=10&inStock=false&is_active=false&sortBy=price"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(newRequest(http.MethodGet, target, nil, nil), uuid.New(), enums.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	q := svc.query
	if svc.role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %q", svc.role)
	}
	if q.CategoryID == nil || *q.CategoryID != categoryID {
		t.Fatalf("expected category filter, got %+v", q.Filter)
	}
	if q.MinPrice == nil || q.MinPrice.String() != "1.5" || q.MaxPrice == nil || q.MaxPrice.String() != "10" {
		t.Fatalf("unexpected price filters %+v", q.Filter)
	}
	if q.InStock == nil || *q.InStock {
		t.Fatalf("expected inStock=false, got %v", q.InStock)
	}
	if q.Visibility.IsActive == nil || *q.Visibility.IsActive {
		t.Fatalf("expected is_active=false, got %+v", q.Visibility)
	}
}

func TestSweetListRejectsMalformedQuery(t *testing.T) {
	handler := SweetList(&stubSweetService{}, 100, nil)

	for _, target := range []string{
		"/api/sweets?minPrice=abc",
		"/api/sweets?minPrice=-1",
		"/api/sweets?categoryId=nope",
		"/api/sweets?inStock=maybe",
		"/api/sweets?limit=1000",
		"/api/sweets?sortOrder=sideways",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(http.MethodGet, target, nil, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rec.Code)
		}
	}
}

func TestSweetSearchForwardsQuery(t *testing.T) {
	svc := &stubSweetService{}
	handler := SweetSearch(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(newRequest(http.MethodGet, "/api/sweets/search?q=%20fudge%20&category=choc", nil, nil), uuid.New(), enums.RoleCustomer))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.search.Q != "fudge" || svc.search.Category != "choc" {
		t.Fatalf("unexpected search %+v", svc.search)
	}
}

func TestSweetCreateDecodesDecimalPrice(t *testing.T) {
	svc := &stubSweetService{}
	handler := SweetCreate(svc, nil)
	body := `{"name":"Dark Truffle","categoryId":"` + uuid.NewString() + `","price":10.005,"quantity":5}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodPost, "/api/sweets", strings.NewReader(body), nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created.Price.String() != "10.005" {
		t.Fatalf("controller must pass the raw price through, got %s", svc.created.Price)
	}
	if svc.created.Quantity == nil || *svc.created.Quantity != 5 {
		t.Fatalf("unexpected quantity %v", svc.created.Quantity)
	}
}

func TestSweetCreateRejectsBadName(t *testing.T) {
	handler := SweetCreate(&stubSweetService{}, nil)
	body := `{"name":"9 Lives","categoryId":"` + uuid.NewString() + `","price":1}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodPost, "/api/sweets", strings.NewReader(body), nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
