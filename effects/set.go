package effects

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// State is everything the renderer needs from the transient effects for
// one frame.
type State struct {
	Active  bool
	Elapsed float64

	ShockRadius   float64
	ShockOpacity  float64
	ShockAlpha    float64
	ScorchRadius  float64
	ScorchOpacity float64
	ShakeOffset   mgl64.Vec3
	ShakeRoll     float64
}

// Set drives the shockwave, scorch and camera shake from one shared
// trigger.
type Set struct {
	trigger  Trigger
	strength float64
}

// Update re-arms the effects when key changes. Keys below MinStage disarm
// them. It reports whether a new event started.
func (s *Set) Update(key TriggerKey, energy float64, now time.Duration) bool {
	if !key.Armable() {
		s.trigger.Reset()
		return false
	}
	if !s.trigger.Arm(key, now) {
		return false
	}
	s.strength = ShakeStrength(energy)
	return true
}

func (s *Set) Trigger() *Trigger {
	return &s.trigger
}

func (s *Set) State(now time.Duration) State {
	if !s.trigger.Armed() {
		return State{}
	}
	e := s.trigger.Elapsed(now)
	st := State{Active: true, Elapsed: e}
	st.ShockRadius, st.ShockOpacity = Shockwave(e)
	st.ShockAlpha = ShockAlpha(e)
	st.ScorchRadius, st.ScorchOpacity = Scorch(e)
	st.ShakeOffset, st.ShakeRoll = Shake(s.strength, e)
	return st
}
