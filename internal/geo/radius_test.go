package geo_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/naturae/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaToRadiusKm(t *testing.T) {
	t.Parallel()

	t.Run("zero area yields zero radius", func(t *testing.T) {
		t.Parallel()
		radius, err := geo.AreaToRadiusKm(0)

		require.NoError(t, err)
		assert.Zero(t, radius)
	})

	t.Run("ten square kilometers", func(t *testing.T) {
		t.Parallel()
		radius, err := geo.AreaToRadiusKm(10)

		require.NoError(t, err)
		assert.InDelta(t, 1.7841, radius, 0.0001)
	})

	t.Run("area of pi yields unit radius", func(t *testing.T) {
		t.Parallel()
		radius, err := geo.AreaToRadiusKm(math.Pi)

		require.NoError(t, err)
		assert.InEpsilon(t, 1.0, radius, 1e-9)
	})

	t.Run("matches the closed form for arbitrary areas", func(t *testing.T) {
		t.Parallel()
		for _, area := range []float64{0.25, 1, 42.5, 1000} {
			radius, err := geo.AreaToRadiusKm(area)

			require.NoError(t, err)
			assert.InEpsilon(t, math.Sqrt(area/math.Pi), radius, 1e-12)
		}
	})

	t.Run("negative area is a domain error", func(t *testing.T) {
		t.Parallel()
		radius, err := geo.AreaToRadiusKm(-1)

		require.Error(t, err)
		require.ErrorIs(t, err, geo.ErrNegativeArea)
		assert.Zero(t, radius)
	})
}
