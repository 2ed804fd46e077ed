package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field is a velocity perturbation sampled at a (scaled) position and time.
type Field interface {
	Sample(p mgl64.Vec3, t float64) mgl64.Vec3
}

// TrigField is a cheap deterministic swirl built from offset sines. It is
// not divergence free; it only has to look like rolling smoke.
type TrigField struct{}

func (TrigField) Sample(p mgl64.Vec3, t float64) mgl64.Vec3 {
	x, y, z := p[0], p[1], p[2]
	return mgl64.Vec3{
		math.Sin(y*1.3+t*0.7) - math.Cos(z*1.1+t*0.5),
		math.Sin(z*1.7+t*0.9) - math.Cos(x*1.2-t*0.4),
		math.Sin(x*1.5-t*0.6) - math.Cos(y*0.9+t*0.8),
	}.Mul(0.5)
}

// SimplexField samples 4D simplex noise, one offset lookup per axis, with
// time as the fourth coordinate. Output is in roughly [-1, 1] per axis.
type SimplexField struct {
	noise opensimplex.Noise
	speed float64
}

func NewSimplexField(seed int64) *SimplexField {
	return &SimplexField{noise: opensimplex.New(seed), speed: 0.35}
}

func (f *SimplexField) Sample(p mgl64.Vec3, t float64) mgl64.Vec3 {
	w := t * f.speed
	return mgl64.Vec3{
		f.noise.Eval4(p[0], p[1], p[2], w),
		f.noise.Eval4(p[0]+31.4, p[1]-12.7, p[2]+5.3, w),
		f.noise.Eval4(p[0]-8.1, p[1]+19.9, p[2]-27.2, w),
	}
}

// NewField returns the named field: "simplex" or anything else for trig.
func NewField(kind string, seed int64) Field {
	if kind == "simplex" {
		return NewSimplexField(seed)
	}
	return TrigField{}
}
