package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamunshop/storefront-api/internal/domains/catalog/adapters/memory"
	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
	"github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
)

func TestGetProduct(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)

	product, err := domain.NewProduct(0, map[string]string{"en": "Pad thai kit"}, decimal.NewFromInt(159), 8)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), product)
	require.NoError(t, err)

	got, err := svc.GetProduct(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	_, err = svc.GetProduct(context.Background(), 9999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListProducts(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)

	for _, name := range []string{"Mango sticky rice", "Thai milk tea"} {
		product, err := domain.NewProduct(0, map[string]string{"en": name}, decimal.NewFromInt(99), 3)
		require.NoError(t, err)
		_, err = repo.Save(context.Background(), product)
		require.NoError(t, err)
	}

	list, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
