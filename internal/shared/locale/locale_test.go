package locale

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FallbackChain(t *testing.T) {
	texts := map[string]string{"th": "มะม่วงอบแห้ง", "en": "Dried mango"}

	assert.Equal(t, "Dried mango", Resolve(texts, "en", "th"))
	assert.Equal(t, "Dried mango", Resolve(texts, "en-US", "th"))
	assert.Equal(t, "มะม่วงอบแห้ง", Resolve(texts, "ja", "th"))
	// neither requested nor fallback present: first available wins deterministically
	assert.Equal(t, "Dried mango", Resolve(texts, "ja", "fr"))
	assert.Equal(t, Placeholder, Resolve(nil, "en", "th"))
	assert.Equal(t, Placeholder, Resolve(map[string]string{"en": ""}, "en", "th"))
}

func TestFormatAmount(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")
	assert.Equal(t, "฿1,234.50", FormatAmount(amount, "th"))
	assert.Equal(t, "THB 1,234.50", FormatAmount(amount, "en"))
	// unknown locale falls back to the default currency
	assert.Equal(t, "฿1,234.50", FormatAmount(amount, "xx"))
	assert.Equal(t, "฿0.00", FormatAmount(decimal.Zero, "th"))
	assert.Equal(t, "฿1,000,000.00", FormatAmount(decimal.NewFromInt(1000000), "th"))
}

func TestFormatDate(t *testing.T) {
	ts, err := time.Parse(time.RFC3339, "2024-05-09T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "09/05/2567", FormatDate(ts, "th"))
	assert.Equal(t, "May 9, 2024", FormatDate(ts, "en"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "en", Normalize(" EN-us "))
	assert.Equal(t, "th", Normalize("th_TH"))
	assert.Equal(t, "", Normalize(""))
}
