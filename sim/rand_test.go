package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandDistributions(t *testing.T) {
	r := NewRand(1)
	var sumY float64
	const n = 4000
	for i := 0; i < n; i++ {
		u := r.UnitVector()
		assert.InDelta(t, 1, u.Len(), 1e-9)
		sumY += u[1]

		h := r.HorizontalUnit()
		assert.Zero(t, h[1])
		assert.InDelta(t, 1, h.Len(), 1e-9)

		c := r.Cone(math.Pi / 6)
		assert.GreaterOrEqual(t, c[1], math.Cos(math.Pi/6)-1e-9)

		v := r.Uniform(2, 3)
		assert.True(t, v >= 2 && v <= 3)
	}
	assert.InDelta(t, 0, sumY/n, 0.05, "unit vectors should not favour up or down")
	assert.Equal(t, [3]float64{0, 1, 0}, [3]float64(r.Cone(0)))
}
