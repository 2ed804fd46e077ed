package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Rand is a seeded random source with the distributions the kernels need.
// Each system owns one so seeding a system reproduces it exactly.
type Rand struct {
	r *rand.Rand
}

func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Float64() float64 {
	return r.r.Float64()
}

// Uniform returns a value in [a, b).
func (r *Rand) Uniform(a, b float64) float64 {
	return cp.Lerp(a, b, r.r.Float64())
}

// UnitVector returns a direction uniformly distributed on the unit sphere.
func (r *Rand) UnitVector() mgl64.Vec3 {
	z := r.Uniform(-1, 1)
	phi := r.Uniform(0, 2*math.Pi)
	s := math.Sqrt(1 - z*z)
	return mgl64.Vec3{s * math.Cos(phi), z, s * math.Sin(phi)}
}

// HorizontalUnit returns a unit vector in the XZ plane.
func (r *Rand) HorizontalUnit() mgl64.Vec3 {
	phi := r.Uniform(0, 2*math.Pi)
	return mgl64.Vec3{math.Cos(phi), 0, math.Sin(phi)}
}

// Cone returns a unit vector within halfAngle radians of +Y, uniform over
// the spherical cap.
func (r *Rand) Cone(halfAngle float64) mgl64.Vec3 {
	if halfAngle <= 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	cosTheta := cp.Lerp(math.Cos(halfAngle), 1, r.r.Float64())
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := r.Uniform(0, 2*math.Pi)
	return mgl64.Vec3{math.Cos(phi) * sinTheta, cosTheta, math.Sin(phi) * sinTheta}
}
