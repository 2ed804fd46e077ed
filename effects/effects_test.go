package effects

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShockwave(t *testing.T) {
	tests := []struct {
		elapsed     float64
		wantRadius  float64
		wantOpacity float64
	}{
		{0, 2, 1},
		{1.0 / 3, 6, 0.8},
		{1, 14, 0.4},
		{2, 26, 0},
		{10, 60, 0},
	}
	for _, tt := range tests {
		r, o := Shockwave(tt.elapsed)
		assert.InDelta(t, tt.wantRadius, r, 1e-9, "elapsed %v", tt.elapsed)
		assert.InDelta(t, tt.wantOpacity, o, 1e-9, "elapsed %v", tt.elapsed)
	}
}

func TestScorch(t *testing.T) {
	tests := []struct {
		elapsed     float64
		wantRadius  float64
		wantOpacity float64
	}{
		{0, 0, 0.4},
		{1, 6, 0.3},
		{2, 12, 0.2},
		{5, 12, 0},
	}
	for _, tt := range tests {
		r, o := Scorch(tt.elapsed)
		assert.InDelta(t, tt.wantRadius, r, 1e-9)
		assert.InDelta(t, tt.wantOpacity, o, 1e-9)
	}
}

func TestShakeDecays(t *testing.T) {
	assert.Equal(t, 0.3, ShakeAmplitude(0.3, 0))
	assert.InDelta(t, 0.3*math.Exp(-4), ShakeAmplitude(0.3, 1), 1e-12)
	assert.Equal(t, 0.3, ShakeAmplitude(0.3, -1))

	early, _ := Shake(0.3, 0.01)
	late, _ := Shake(0.3, 2)
	assert.Greater(t, early.Len(), late.Len())

	off, roll := Shake(0, 0.5)
	assert.Zero(t, off.Len())
	assert.Zero(t, roll)

	a, ra := Shake(0.3, 0.2)
	b, rb := Shake(0.3, 0.2)
	assert.Equal(t, a, b)
	assert.Equal(t, ra, rb)
}

func TestShakeStrength(t *testing.T) {
	assert.Zero(t, ShakeStrength(0))
	assert.InDelta(t, 0.12, ShakeStrength(3), 1e-12)
	assert.Equal(t, 0.5, ShakeStrength(100))
}

func TestTriggerRearm(t *testing.T) {
	var tr Trigger
	key := KeyFor(3, 7.5, false)

	require.True(t, tr.Arm(key, 1*time.Second))
	assert.False(t, tr.Arm(key, 4*time.Second), "same key must not restart")
	assert.Equal(t, 1*time.Second, tr.Start())
	assert.InDelta(t, 3, tr.Elapsed(4*time.Second), 1e-9)

	next := KeyFor(4, 10, false)
	require.True(t, tr.Arm(next, 4*time.Second))
	assert.Equal(t, 4*time.Second, tr.Start())

	e := tr.Elapsed(4*time.Second + 333*time.Millisecond)
	r, o := Shockwave(e)
	assert.InDelta(t, 6, r, 0.01)
	assert.InDelta(t, 0.8, o, 0.01)

	// Right after re-arming the ring is small and drawn at its base alpha.
	now := 4 * time.Second
	r, o = Shockwave(tr.Elapsed(now))
	assert.InDelta(t, 2, r, 1e-9)
	assert.InDelta(t, 1, o, 1e-9)
	assert.InDelta(t, 0.8, ShockAlpha(tr.Elapsed(now)), 1e-9)
}

func TestTriggerElapsedBounds(t *testing.T) {
	var tr Trigger
	assert.Zero(t, tr.Elapsed(time.Hour))
	tr.Arm(KeyFor(2, 3, false), 10*time.Second)
	assert.Zero(t, tr.Elapsed(5*time.Second))
	tr.Reset()
	assert.False(t, tr.Armed())
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, KeyFor(2, 3.01, false), KeyFor(2, 2.99, false))
	assert.NotEqual(t, KeyFor(2, 3.0, false), KeyFor(2, 3.2, false))
	assert.NotEqual(t, KeyFor(2, 3.0, false), KeyFor(2, 3.0, true))
	assert.NotEqual(t, KeyFor(2, 3.0, false), KeyFor(3, 3.0, false))
}

func TestSetArmsFromSurgeOnward(t *testing.T) {
	var s Set
	for stage := 0; stage < MinStage; stage++ {
		assert.False(t, s.Update(KeyFor(stage, 1, false), 1, time.Second))
		assert.False(t, s.State(2*time.Second).Active)
	}

	require.True(t, s.Update(KeyFor(2, 3, false), 3, time.Second))
	assert.False(t, s.Update(KeyFor(2, 3, false), 3, 2*time.Second))

	st := s.State(time.Second)
	assert.True(t, st.Active)
	assert.InDelta(t, 2, st.ShockRadius, 1e-9)
	assert.InDelta(t, 1, st.ShockOpacity, 1e-9)
	assert.InDelta(t, 0.8, st.ShockAlpha, 1e-9)
	assert.InDelta(t, 0.4, st.ScorchOpacity, 1e-9)

	// Going back to an early stage disarms; returning re-arms fresh.
	s.Update(KeyFor(1, 1, false), 1, 3*time.Second)
	assert.False(t, s.State(3*time.Second).Active)
	require.True(t, s.Update(KeyFor(2, 3, false), 3, 5*time.Second))
	assert.Equal(t, 5*time.Second, s.Trigger().Start())
}

func TestSetCompositeArms(t *testing.T) {
	var s Set
	assert.True(t, s.Update(KeyFor(0, 1, true), 1, 0))
	assert.True(t, s.State(0).Active)
}
