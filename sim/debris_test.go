package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebrisLayout(t *testing.T) {
	tests := []struct {
		stage     int
		wantCount int
	}{
		{0, 0}, {1, 0}, {2, 60}, {3, 160}, {4, 160}, {5, 160},
	}
	for _, tt := range tests {
		count, cone := DebrisLayout(tt.stage)
		assert.Equal(t, tt.wantCount, count, "stage %d", tt.stage)
		if count == 0 {
			assert.Zero(t, cone)
		}
	}

	_, surgeCone := DebrisLayout(2)
	_, blastCone := DebrisLayout(3)
	assert.Greater(t, surgeCone, blastCone, "surge cone should be wider")
}

func TestDebrisLaunchCone(t *testing.T) {
	d := NewDebrisSystem(3, 8, 1)
	require.Equal(t, 160, d.Len())
	_, cone := DebrisLayout(3)

	for i := 0; i < d.Len(); i++ {
		b := d.Body(i)
		require.Positive(t, b.Vel.Len())
		angle := math.Acos(b.Vel.Normalize()[1])
		assert.LessOrEqual(t, angle, cone+1e-9)
		assert.LessOrEqual(t, b.Vel.Len(), 8*1.1+1e-9)
		assert.GreaterOrEqual(t, b.Scale, 0.05)
	}
}

func TestDebrisEarlyStagesEmpty(t *testing.T) {
	d := NewDebrisSystem(1, 8, 1)
	assert.Zero(t, d.Len())
	d.Advance(frame)
}

func TestDebrisSettlesOnGround(t *testing.T) {
	d := NewDebrisSystem(4, 10, 5)
	for f := 0; f < 60*30; f++ {
		d.Advance(frame)
	}
	for i := 0; i < d.Len(); i++ {
		pos, _, _ := d.Transform(i)
		b := d.Body(i)
		assert.Less(t, pos[1], 0.01, "body %d still airborne", i)
		assert.Less(t, math.Hypot(b.Vel[0], b.Vel[2]), 1e-3, "body %d still sliding", i)
		assert.GreaterOrEqual(t, pos[1], 0.0)
	}
}

func TestDebrisBounce(t *testing.T) {
	d := NewDebrisSystem(2, 1, 3)
	require.NotZero(t, d.Len())
	d.bodies[0] = DebrisBody{
		Pos:  mgl64.Vec3{0, 0.001, 0},
		Vel:  mgl64.Vec3{1, -2, 1},
		Spin: mgl64.Vec3{2, 2, 2},
	}
	d.Advance(frame)

	b := d.Body(0)
	wantVy := (-2 - Gravity*frame) * debrisBounce
	assert.Equal(t, 0.0, b.Pos[1])
	assert.InDelta(t, wantVy, b.Vel[1], 1e-12)
	assert.InDelta(t, debrisFriction, b.Vel[0], 1e-12)
	assert.InDelta(t, 2*debrisSpinLoss, b.Spin[2], 1e-12)
}

func TestDebrisReproducible(t *testing.T) {
	a := NewDebrisSystem(3, 6, 99)
	b := NewDebrisSystem(3, 6, 99)
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.Body(i), b.Body(i))
	}
}

func TestDebrisNegativeEnergy(t *testing.T) {
	d := NewDebrisSystem(3, -5, 1)
	for i := 0; i < d.Len(); i++ {
		assert.Zero(t, d.Body(i).Vel.Len())
	}
}
