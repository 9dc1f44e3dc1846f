package categories

import (
	"context"
	"testing"

	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateAndNameUniqueness(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, "Chocolates")
	require.NoError(t, err)
	assert.True(t, created.IsActive())
	assert.Nil(t, created.DeletedAt)

	taken, err := repo.NameTaken(ctx, "Chocolates", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NameTaken(ctx, "Chocolates", created.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = repo.Create(ctx, "Chocolates")
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryListFiltersAndSorts(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	for _, name := range []string{"Toffee", "Chocolates", "Hard Candy"} {
		_, err := repo.Create(ctx, name)
		require.NoError(t, err)
	}
	retired, err := repo.Create(ctx, "Licorice")
	require.NoError(t, err)
	moved, err := repo.SetStatus(ctx, retired.ID, enums.LifecycleStatusDeleted)
	require.NoError(t, err)
	require.True(t, moved)

	params := pagination.Params{Page: 1, Limit: 10, SortBy: "name", SortOrder: enums.SortOrderAsc}
	rows, total, err := repo.List(ctx, params, Filter{}, visibility.Resolve(enums.RoleCustomer, visibility.Filter{}))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 3)
	assert.Equal(t, "Chocolates", rows[0].Name)
	assert.Equal(t, "Toffee", rows[2].Name)

	rows, total, err = repo.List(ctx, params, Filter{Search: "CANDY"}, visibility.Resolve(enums.RoleCustomer, visibility.Filter{}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Hard Candy", rows[0].Name)

	_, total, err = repo.List(ctx, params, Filter{}, visibility.Resolve(enums.RoleAdmin, visibility.Filter{IncludeDeleted: true}))
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	options, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "Chocolates", options[0].Name)
}

func TestRepositoryFindByIDHonoursPredicate(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, "Marshmallow")
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, created.ID, enums.LifecycleStatusDeleted)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, created.ID, visibility.ForLookup(enums.RoleCustomer))
	assert.True(t, db.IsNotFound(err))

	found, err := repo.FindByID(ctx, created.ID, visibility.ForLookup(enums.RoleAdmin))
	require.NoError(t, err)
	assert.False(t, found.IsActive())
	assert.NotNil(t, found.DeletedAt)
}

func TestRepositoryListEscapesWildcards(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	for _, name := range []string{"Chocolates", "Gummies"} {
		_, err := repo.Create(ctx, name)
		require.NoError(t, err)
	}

	pred := visibility.Resolve(enums.RoleCustomer, visibility.Filter{})
	params := pagination.Params{Page: 1, Limit: 10}

	_, total, err := repo.List(ctx, params, Filter{Search: "%"}, pred)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	_, total, err = repo.List(ctx, params, Filter{Name: "_"}, pred)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	_, total, err = repo.List(ctx, params, Filter{Name: "choc"}, pred)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
