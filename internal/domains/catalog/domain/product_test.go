package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Invariants(t *testing.T) {
	names := map[string]string{"en": "Jasmine rice 5kg"}

	_, err := NewProduct(1, nil, decimal.NewFromInt(100), 3)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewProduct(1, names, decimal.Zero, 3)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewProduct(1, names, decimal.NewFromInt(100), -1)
	assert.ErrorIs(t, err, ErrNegativeStock)

	p, err := NewProduct(1, names, decimal.NewFromInt(100), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestUnitPrice_PrefersSalePrice(t *testing.T) {
	p, err := NewProduct(1, map[string]string{"en": "Tea"}, decimal.NewFromInt(250), 10)
	require.NoError(t, err)
	assert.True(t, p.UnitPrice().Equal(decimal.NewFromInt(250)))

	sale := decimal.NewFromInt(199)
	p.SalePrice = &sale
	assert.True(t, p.UnitPrice().Equal(sale))
}

func TestName_LocaleResolution(t *testing.T) {
	p := &Product{Names: map[string]string{"th": "ชาเขียว", "en": "Green tea"}}
	assert.Equal(t, "Green tea", p.Name("en", "th"))
	assert.Equal(t, "ชาเขียว", p.Name("ja", "th"))
}
