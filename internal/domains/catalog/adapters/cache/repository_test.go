package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamunshop/storefront-api/internal/domains/catalog/adapters/memory"
	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
)

type fakeCache struct {
	values map[string]string
	gets   int
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	default:
		f.values[key] = fmt.Sprintf("%v", v)
	}
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.gets++
	if v, ok := f.values[key]; ok {
		f.hits++
		return v, nil
	}
	return "", nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeCache) Key(parts ...any) string {
	key := "test"
	for _, part := range parts {
		key += fmt.Sprintf(":%v", part)
	}
	return key
}

func seedProduct(t *testing.T, inner *memory.Repository) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(0, map[string]string{"en": "Coconut sugar"}, decimal.NewFromInt(85), 12)
	require.NoError(t, err)
	saved, err := inner.Save(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func TestGetByID_ReadThrough(t *testing.T) {
	inner := memory.NewRepository()
	fc := newFakeCache()
	repo := NewRepository(inner, fc, nil)
	seeded := seedProduct(t, inner)

	first, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, first.ID)
	assert.Equal(t, 0, fc.hits)

	second, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, second.ID)
	assert.Equal(t, 1, fc.hits)
	assert.True(t, second.UnitPrice().Equal(seeded.UnitPrice()))
}

func TestSave_InvalidatesEntry(t *testing.T) {
	inner := memory.NewRepository()
	fc := newFakeCache()
	repo := NewRepository(inner, fc, nil)
	seeded := seedProduct(t, inner)

	_, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Contains(t, fc.values, fc.Key("product", seeded.ID))

	seeded.Stock = 5
	_, err = repo.Save(context.Background(), seeded)
	require.NoError(t, err)
	assert.NotContains(t, fc.values, fc.Key("product", seeded.ID))
}
