package sweets

import (
	"context"
	"testing"

	"github.com/angelmondragon/sweetshop-backend/internal/categories"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCategory(t *testing.T, conn *gorm.DB, name string) *models.Category {
	t.Helper()
	category, err := categories.NewRepository(conn).Create(context.Background(), name)
	require.NoError(t, err)
	return category
}

func seedSweet(t *testing.T, repo *Repository, categoryID uuid.UUID, name, price string, qty int) *models.Sweet {
	t.Helper()
	sweet := &models.Sweet{
		Name:       name,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString(price),
		Quantity:   qty,
	}
	require.NoError(t, repo.Create(context.Background(), sweet))
	return sweet
}

func activeOnly() visibility.Predicate {
	return visibility.Resolve(enums.RoleCustomer, visibility.Filter{})
}

func TestRepositoryListFilters(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	chocolates := seedCategory(t, conn, "Chocolates")
	gummies := seedCategory(t, conn, "Gummies")
	seedSweet(t, repo, chocolates.ID, "Dark Bar", "4.50", 10)
	seedSweet(t, repo, chocolates.ID, "Milk Bar", "3.25", 0)
	seedSweet(t, repo, gummies.ID, "Gummy Bears", "1.99", 40)

	params := pagination.Params{Page: 1, Limit: 10, SortBy: "price", SortOrder: enums.SortOrderAsc}

	rows, total, err := repo.List(ctx, params, Filter{}, activeOnly())
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 3)
	assert.Equal(t, "Gummy Bears", rows[0].Name)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "Gummies", rows[0].Category.Name)

	rows, total, err = repo.List(ctx, params, Filter{Category: "choc"}, activeOnly())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	inStock := true
	_, total, err = repo.List(ctx, params, Filter{CategoryID: &chocolates.ID, InStock: &inStock}, activeOnly())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	outOfStock := false
	rows, _, err = repo.List(ctx, params, Filter{InStock: &outOfStock}, activeOnly())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Milk Bar", rows[0].Name)

	minPrice := decimal.RequireFromString("2")
	maxPrice := decimal.RequireFromString("4")
	rows, _, err = repo.List(ctx, params, Filter{MinPrice: &minPrice, MaxPrice: &maxPrice}, activeOnly())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Milk Bar", rows[0].Name)
}

func TestRepositorySearchIsCappedAndOrdered(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Lollipops")
	for i := 0; i < SearchLimit+5; i++ {
		seedSweet(t, repo, category.ID, "Lolly "+uuid.NewString()[:8], "0.50", 1)
	}
	seedSweet(t, repo, category.ID, "Fudge", "2.00", 1)

	rows, err := repo.Search(ctx, "LOLLY", Filter{}, activeOnly(), SearchLimit)
	require.NoError(t, err)
	assert.Len(t, rows, SearchLimit)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Name, rows[i].Name)
	}
}

func TestRepositoryStockGuards(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Caramels")
	sweet := seedSweet(t, repo, category.ID, "Salted Caramel", "1.00", 3)

	ok, err := repo.DecrementStock(ctx, sweet.ID, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, sweet.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementStock(ctx, sweet.ID, 10, 12)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementStock(ctx, sweet.ID, 3, 12)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(ctx, sweet.ID, activeOnly())
	require.NoError(t, err)
	assert.Equal(t, 10, found.Quantity)

	moved, err := repo.SetStatus(ctx, sweet.ID, enums.LifecycleStatusDeleted)
	require.NoError(t, err)
	require.True(t, moved)

	ok, err = repo.DecrementStock(ctx, sweet.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "deleted sweets cannot be sold")
}

func TestRepositoryNameTakenIgnoresDeleted(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Nougat")
	sweet := seedSweet(t, repo, category.ID, "Almond Nougat", "2.00", 1)

	taken, err := repo.NameTaken(ctx, "Almond Nougat", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	_, err = repo.SetStatus(ctx, sweet.ID, enums.LifecycleStatusDeleted)
	require.NoError(t, err)

	taken, err = repo.NameTaken(ctx, "Almond Nougat", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRepositorySearchTreatsWildcardsLiterally(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mixes := seedCategory(t, conn, "Mixes")
	seedSweet(t, repo, mixes.ID, "Dark Bar", "2.00", 5)
	seedSweet(t, repo, mixes.ID, "Half_Half Mix", "3.00", 5)

	rows, err := repo.Search(ctx, "%", Filter{}, activeOnly(), SearchLimit)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.Search(ctx, "_", Filter{}, activeOnly(), SearchLimit)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Half_Half Mix", rows[0].Name)

	params := pagination.Params{Page: 1, Limit: 10}
	_, total, err := repo.List(ctx, params, Filter{Search: "%"}, activeOnly())
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	_, total, err = repo.List(ctx, params, Filter{Category: "%"}, activeOnly())
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
