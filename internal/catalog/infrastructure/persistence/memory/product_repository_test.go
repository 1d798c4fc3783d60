package memory_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/productcatalog/internal/catalog/domain"
	"github.com/wyfcoding/productcatalog/internal/catalog/infrastructure/persistence/memory"
)

func TestSaveAssignsID(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewProductRepository()

	p := &domain.Product{Name: "Product", Price: 100}
	require.NoError(t, repo.Save(ctx, p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Product", got.Name)
	assert.Equal(t, 100.0, got.Price)
}

func TestSaveUpdatesExisting(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewProductRepository()

	p := &domain.Product{Name: "Before", Price: 100}
	require.NoError(t, repo.Save(ctx, p))
	id := p.ID

	p.Name = "After"
	p.Price = 200
	require.NoError(t, repo.Save(ctx, p))
	assert.Equal(t, id, p.ID, "update must not assign a new ID")

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, 200.0, got.Price)

	_, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := memory.NewProductRepository()

	_, err := repo.GetByID(t.Context(), 42)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewProductRepository()

	p := &domain.Product{Name: "Product", Price: 100}
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	require.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrProductNotFound)

	_, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListInsertionOrder(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewProductRepository()

	for i := 1; i <= 5; i++ {
		p := &domain.Product{Name: fmt.Sprintf("Product %d", i), Price: float64(i)}
		require.NoError(t, repo.Save(ctx, p))
	}

	page, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 5)
	for i, p := range page {
		assert.Equal(t, fmt.Sprintf("Product %d", i+1), p.Name)
	}
}

func TestListPagination(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewProductRepository()

	for i := 1; i <= 11; i++ {
		p := &domain.Product{Name: fmt.Sprintf("Product %d", i), Price: float64(i)}
		require.NoError(t, repo.Save(ctx, p))
	}

	page1, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, page1, 10)
	assert.Equal(t, "Product 1", page1[0].Name)
	assert.Equal(t, "Product 10", page1[9].Name)

	page2, total, err := repo.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, page2, 1)
	assert.Equal(t, "Product 11", page2[0].Name)

	empty, total, err := repo.List(ctx, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	assert.Empty(t, empty)
}

func TestListReturnsCopies(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewProductRepository()

	p := &domain.Product{Name: "Product", Price: 100}
	require.NoError(t, repo.Save(ctx, p))

	page, _, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	page[0].Name = "Mutated"

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Product", got.Name, "callers must not mutate stored state")
}
