package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	r := NewResolver()

	bkk, ok := r.Locate("Bangkok")
	require.True(t, ok)
	assert.InDelta(t, 13.7563, bkk.Lat, 1e-6)

	// case and whitespace insensitive
	alt, ok := r.Locate("  chiang   mai ")
	require.True(t, ok)
	assert.InDelta(t, 18.7883, alt.Lat, 1e-6)

	// Thai spelling resolves to the same point
	thai, ok := r.Locate("เชียงใหม่")
	require.True(t, ok)
	assert.Equal(t, alt, thai)

	_, ok = r.Locate("Atlantis")
	assert.False(t, ok)
	_, ok = r.Locate("")
	assert.False(t, ok)
}
