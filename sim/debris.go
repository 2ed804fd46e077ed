package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	debrisBounce   = -0.28
	debrisFriction = 0.65
	debrisSpinLoss = 0.9
)

// DebrisLayout returns how many bodies a stage throws and the half angle
// (radians) of the launch cone around +Y. Early stages throw nothing.
func DebrisLayout(stage int) (count int, coneHalfAngle float64) {
	switch {
	case stage >= 3:
		return 160, mgl64.DegToRad(28)
	case stage == 2:
		return 60, mgl64.DegToRad(65)
	default:
		return 0, 0
	}
}

// DebrisBody is one rigid fragment. Scale is fixed at launch.
type DebrisBody struct {
	Pos   mgl64.Vec3
	Vel   mgl64.Vec3
	Rot   mgl64.Vec3
	Spin  mgl64.Vec3
	Scale float64
}

// DebrisSystem integrates a fixed set of bodies launched once per stage
// activation. Bodies are never respawned; grounded ones settle in place.
type DebrisSystem struct {
	stage  int
	bodies []DebrisBody
}

// NewDebrisSystem launches the stage's bodies from the core with the given
// launch energy.
func NewDebrisSystem(stage int, energy float64, seed int64) *DebrisSystem {
	count, cone := DebrisLayout(stage)
	rng := NewRand(seed)
	d := &DebrisSystem{stage: stage, bodies: make([]DebrisBody, count)}
	energy = math.Max(0, energy)

	for i := range d.bodies {
		dir := rng.Cone(cone)
		speed := energy * rng.Uniform(0.5, 1.1)
		d.bodies[i] = DebrisBody{
			Pos: mgl64.Vec3{rng.Uniform(-0.2, 0.2), coreHeight, rng.Uniform(-0.2, 0.2)},
			Vel: dir.Mul(speed),
			Rot: mgl64.Vec3{
				rng.Uniform(0, 2*math.Pi),
				rng.Uniform(0, 2*math.Pi),
				rng.Uniform(0, 2*math.Pi),
			},
			Spin:  mgl64.Vec3{rng.Uniform(-6, 6), rng.Uniform(-6, 6), rng.Uniform(-6, 6)},
			Scale: rng.Uniform(0.05, 0.2),
		}
	}
	return d
}

// Advance integrates gravity, spin and ground contact for dt seconds.
func (d *DebrisSystem) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	for i := range d.bodies {
		b := &d.bodies[i]
		b.Vel[1] -= Gravity * dt
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))
		b.Rot = b.Rot.Add(b.Spin.Mul(dt))

		if b.Pos[1] < 0 {
			b.Pos[1] = 0
			b.Vel[1] *= debrisBounce
			b.Vel[0] *= debrisFriction
			b.Vel[2] *= debrisFriction
			b.Spin = b.Spin.Mul(debrisSpinLoss)
		}
	}
}

func (d *DebrisSystem) Stage() int {
	return d.stage
}

func (d *DebrisSystem) Len() int {
	return len(d.bodies)
}

// Transform returns body i's position, Euler rotation and scale.
func (d *DebrisSystem) Transform(i int) (pos, rot mgl64.Vec3, scale float64) {
	b := d.bodies[i]
	return b.Pos, b.Rot, b.Scale
}

// Body returns a copy of body i.
func (d *DebrisSystem) Body(i int) DebrisBody {
	return d.bodies[i]
}
