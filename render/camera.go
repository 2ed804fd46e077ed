package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	defaultDistance = 14.0
	defaultPitch    = 0.22
	defaultFovY     = 50.0
	minDistance     = 4.0
	maxDistance     = 120.0
)

// Camera is an orbiting perspective camera looking at Target.
type Camera struct {
	Target   mgl64.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
	// FovY is the vertical field of view in radians.
	FovY      float64
	Near, Far float64
	Width     float64
	Height    float64

	shake    mgl64.Vec3
	roll     float64
	eye      mgl64.Vec3
	viewProj mgl64.Mat4
}

func NewCamera(width, height float64) *Camera {
	c := &Camera{
		Target:   mgl64.Vec3{0, 1.5, 0},
		Distance: defaultDistance,
		Pitch:    defaultPitch,
		FovY:     mgl64.DegToRad(defaultFovY),
		Near:     0.1,
		Far:      500,
		Width:    width,
		Height:   height,
	}
	c.Update()
	return c
}

// Frame pulls the camera back far enough to fit span world units across
// the screen.
func (c *Camera) Frame(span float64) {
	aspect := c.Width / math.Max(c.Height, 1)
	halfFovX := math.Atan(math.Tan(c.FovY/2) * aspect)
	d := (span / 2) / math.Tan(halfFovX) * 1.15
	c.Distance = cp.Clamp(math.Max(d, defaultDistance), minDistance, maxDistance)
}

// Zoom scales the orbit distance by f.
func (c *Camera) Zoom(f float64) {
	c.Distance = cp.Clamp(c.Distance*f, minDistance, maxDistance)
}

// SetShake offsets the eye and target for this frame and rolls the view.
func (c *Camera) SetShake(offset mgl64.Vec3, roll float64) {
	c.shake = offset
	c.roll = roll
}

// Update recomputes the view-projection. Call after changing any field.
func (c *Camera) Update() {
	pitch := cp.Clamp(c.Pitch, -1.4, 1.4)
	dir := mgl64.Vec3{
		math.Sin(c.Yaw) * math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(c.Yaw) * math.Cos(pitch),
	}
	target := c.Target.Add(c.shake)
	c.eye = target.Add(dir.Mul(c.Distance))

	view := mgl64.LookAtV(c.eye, target, mgl64.Vec3{0, 1, 0})
	if c.roll != 0 {
		view = mgl64.HomogRotate3DZ(c.roll).Mul4(view)
	}
	aspect := c.Width / math.Max(c.Height, 1)
	proj := mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
	c.viewProj = proj.Mul4(view)
}

func (c *Camera) Eye() mgl64.Vec3 {
	return c.eye
}

// Project maps a world point to screen pixels. depth is the view-space
// distance; ok is false for points behind the near plane.
func (c *Camera) Project(p mgl64.Vec3) (screen cp.Vector, depth float64, ok bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= c.Near {
		return cp.Vector{}, w, false
	}
	x := clip.X() / w
	y := clip.Y() / w
	return cp.Vector{
		X: (x + 1) * 0.5 * c.Width,
		Y: (1 - y) * 0.5 * c.Height,
	}, w, true
}

// PixelSize converts a world length at the given depth to pixels.
func (c *Camera) PixelSize(world, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return world * c.Height / (2 * math.Tan(c.FovY/2) * depth)
}

// OnScreen reports whether v lies within the viewport grown by margin.
func (c *Camera) OnScreen(v cp.Vector, margin float64) bool {
	return v.X >= -margin && v.Y >= -margin && v.X <= c.Width+margin && v.Y <= c.Height+margin
}
