package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/reactorsim/effects"
	"github.com/milk9111/reactorsim/scene"
)

const (
	dotSize = 32
	// maxQuads keeps a batch's vertex indices within uint16.
	maxQuads = 65535 / 4

	groundExtent = 12
	ringSegments = 64
	coreHeight   = 0.5
)

var (
	background  = mgl64.Vec3{0x0b / 255.0, 0x0d / 255.0, 0x12 / 255.0}
	heatGlow    = mgl64.Vec3{0.35, 0.08, 0.02}
	gridColor   = color.NRGBA{R: 0x2a, G: 0x2f, B: 0x38, A: 0xff}
	debrisColor = mgl64.Vec3{0.32, 0.3, 0.28}
	shockColor  = mgl64.Vec3{1, 0.85, 0.6}
	lightDir    = mgl64.Vec3{0.4, 0.8, 0.3}.Normalize()
)

// Frame is everything drawn for one tick.
type Frame struct {
	Groups    []*scene.Group
	Effects   effects.State
	Composite bool
	// Heat tints the whole backdrop.
	Heat float64
}

// Renderer draws scene groups with a perspective camera. Particles are
// batched as textured quads.
type Renderer struct {
	cam   *Camera
	dot   *ebiten.Image
	white *ebiten.Image

	verts []ebiten.Vertex
	idx   []uint16
	quads int
	blend ebiten.Blend
	src   *ebiten.Image
}

// New allocates the sprite textures. It fails when no GPU images can be
// created.
func New(width, height float64) (r *Renderer, err error) {
	err = Guard(func() {
		r = &Renderer{
			cam:   NewCamera(width, height),
			dot:   newDot(dotSize),
			white: ebiten.NewImage(3, 3),
		}
		r.white.Fill(color.White)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Probe checks that images can be allocated at all.
func Probe() error {
	return Guard(func() {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.White)
		img.Deallocate()
	})
}

// Guard runs fn and turns a panic into an error.
func Guard(fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render: %v", rec)
		}
	}()
	fn()
	return nil
}

func (r *Renderer) Camera() *Camera {
	return r.cam
}

func (r *Renderer) Draw(screen *ebiten.Image, f Frame) {
	r.cam.SetShake(f.Effects.ShakeOffset, f.Effects.ShakeRoll)
	r.cam.Update()

	screen.Fill(backdrop(f.Heat))
	r.drawGround(screen)

	origin := effectOrigin(f)
	if f.Effects.Active {
		r.drawScorch(screen, origin, f.Effects.ScorchRadius, f.Effects.ScorchOpacity)
	}

	for _, g := range f.Groups {
		r.drawCore(screen, g)
	}
	for _, g := range f.Groups {
		r.drawDebris(screen, g)
	}
	for _, g := range f.Groups {
		for _, l := range g.Layers {
			r.drawLayer(screen, g.Offset, l)
		}
	}
	r.flush(screen)

	if f.Effects.Active {
		r.drawShockwave(screen, origin, f.Effects.ShockRadius, f.Effects.ShockAlpha)
	}
}

// backdrop warms the clear colour with scene heat, saturating at heat 3.
func backdrop(heat float64) color.NRGBA {
	t := cp.Clamp01(heat/3) * 0.5
	c := background.Add(heatGlow.Sub(background).Mul(t))
	return color.NRGBA{
		R: uint8(math.Round(255 * c.X())),
		G: uint8(math.Round(255 * c.Y())),
		B: uint8(math.Round(255 * c.Z())),
		A: 0xff,
	}
}

// effectOrigin is where the transient effects sit: the blast stage's
// group, which is the last one in composite mode.
func effectOrigin(f Frame) mgl64.Vec3 {
	if len(f.Groups) == 0 {
		return mgl64.Vec3{}
	}
	if f.Composite {
		return f.Groups[len(f.Groups)-1].Offset
	}
	return f.Groups[0].Offset
}

func (r *Renderer) drawGround(screen *ebiten.Image) {
	for i := -groundExtent; i <= groundExtent; i += 2 {
		x := r.cam.Target.X() + float64(i)
		z := float64(i)
		r.line(screen, mgl64.Vec3{x, 0, -groundExtent}, mgl64.Vec3{x, 0, groundExtent}, 1, gridColor)
		r.line(screen, mgl64.Vec3{r.cam.Target.X() - groundExtent, 0, z}, mgl64.Vec3{r.cam.Target.X() + groundExtent, 0, z}, 1, gridColor)
	}
}

func (r *Renderer) line(screen *ebiten.Image, a, b mgl64.Vec3, width float32, clr color.Color) {
	pa, _, okA := r.cam.Project(a)
	pb, _, okB := r.cam.Project(b)
	if !okA || !okB {
		return
	}
	vector.StrokeLine(screen, float32(pa.X), float32(pa.Y), float32(pb.X), float32(pb.Y), width, clr, true)
}

func (r *Renderer) drawCore(screen *ebiten.Image, g *scene.Group) {
	center := g.Offset.Add(mgl64.Vec3{0, coreHeight, 0})
	p, depth, ok := r.cam.Project(center)
	if !ok {
		return
	}
	heat := math.Max(0, g.Heat)
	radius := r.cam.PixelSize(0.6+0.5*heat, depth)
	if radius < 1 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-dotSize/2, -dotSize/2)
	op.GeoM.Scale(2*radius/dotSize, 2*radius/dotSize)
	op.GeoM.Translate(p.X, p.Y)
	glow := cp.Clamp01(0.25 + 0.3*heat)
	op.ColorScale.Scale(float32(glow), float32(glow*0.55), float32(glow*0.2), float32(glow))
	op.Blend = ebiten.BlendLighter
	screen.DrawImage(r.dot, op)
}

func (r *Renderer) drawLayer(screen *ebiten.Image, offset mgl64.Vec3, l scene.Layer) {
	blend := ebiten.BlendLighter
	additive := l.Blend == scene.BlendAdditive
	if !additive {
		blend = ebiten.BlendSourceOver
	}
	r.begin(screen, r.dot, blend)

	sys := l.System
	pos, colors, sizes := sys.Positions(), sys.Colors(), sys.Sizes()
	lives, temps := sys.Lives(), sys.Temperatures()
	for i := range pos {
		p, depth, ok := r.cam.Project(pos[i].Add(offset))
		if !ok {
			continue
		}
		half := r.cam.PixelSize(sizes[i], depth)
		if half < 0.25 || !r.cam.OnScreen(p, half) {
			continue
		}
		half = math.Max(half, 0.75)

		c := colors[i]
		var alpha float64
		if additive {
			c = c.Mul(0.35 + 0.65*cp.Clamp01(temps[i]))
			alpha = 0.9 * cp.Clamp01(lives[i])
		} else {
			alpha = 0.35 * cp.Clamp01(lives[i])
		}
		r.quad(screen, p, half, c, alpha)
	}
}

func (r *Renderer) drawDebris(screen *ebiten.Image, g *scene.Group) {
	if g.Debris == nil || g.Debris.Len() == 0 {
		return
	}
	r.flush(screen)

	eye := r.cam.Eye()
	for i := 0; i < g.Debris.Len(); i++ {
		pos, rot, scale := g.Debris.Transform(i)
		pos = pos.Add(g.Offset)
		q := mgl64.AnglesToQuat(rot.X(), rot.Y(), rot.Z(), mgl64.XYZ)

		var corners [8]cp.Vector
		visible := true
		for c := range corners {
			local := mgl64.Vec3{
				float64(c&1)*2 - 1,
				float64(c>>1&1)*2 - 1,
				float64(c>>2&1)*2 - 1,
			}.Mul(scale / 2)
			p, _, ok := r.cam.Project(pos.Add(q.Rotate(local)))
			if !ok {
				visible = false
				break
			}
			corners[c] = p
		}
		if !visible {
			continue
		}

		for _, face := range cubeFaces {
			normal := q.Rotate(face.normal)
			center := pos.Add(normal.Mul(scale / 2))
			if normal.Dot(eye.Sub(center)) <= 0 {
				continue
			}
			shade := 0.35 + 0.65*math.Max(0, normal.Dot(lightDir))
			r.polygon(screen, []cp.Vector{
				corners[face.idx[0]], corners[face.idx[1]],
				corners[face.idx[2]], corners[face.idx[3]],
			}, debrisColor.Mul(shade), 1, ebiten.BlendSourceOver)
		}
	}
}

type cubeFace struct {
	normal mgl64.Vec3
	idx    [4]int
}

// Corner index bits are x, y, z.
var cubeFaces = []cubeFace{
	{mgl64.Vec3{-1, 0, 0}, [4]int{0, 2, 6, 4}},
	{mgl64.Vec3{1, 0, 0}, [4]int{1, 5, 7, 3}},
	{mgl64.Vec3{0, -1, 0}, [4]int{0, 4, 5, 1}},
	{mgl64.Vec3{0, 1, 0}, [4]int{2, 3, 7, 6}},
	{mgl64.Vec3{0, 0, -1}, [4]int{0, 1, 3, 2}},
	{mgl64.Vec3{0, 0, 1}, [4]int{4, 6, 7, 5}},
}

func (r *Renderer) groundRing(center mgl64.Vec3, radius float64) ([]cp.Vector, bool) {
	pts := make([]cp.Vector, 0, ringSegments)
	for i := 0; i < ringSegments; i++ {
		a := 2 * math.Pi * float64(i) / ringSegments
		p, _, ok := r.cam.Project(center.Add(mgl64.Vec3{radius * math.Cos(a), 0.02, radius * math.Sin(a)}))
		if !ok {
			return nil, false
		}
		pts = append(pts, p)
	}
	return pts, true
}

func (r *Renderer) drawScorch(screen *ebiten.Image, center mgl64.Vec3, radius, opacity float64) {
	if radius <= 0 || opacity <= 0 {
		return
	}
	pts, ok := r.groundRing(center, radius)
	if !ok {
		return
	}
	r.polygon(screen, pts, mgl64.Vec3{0.02, 0.015, 0.01}, opacity, ebiten.BlendSourceOver)
}

func (r *Renderer) drawShockwave(screen *ebiten.Image, center mgl64.Vec3, radius, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	pts, ok := r.groundRing(center, radius)
	if !ok {
		return
	}
	clr := color.NRGBA{
		R: uint8(255 * shockColor.X()),
		G: uint8(255 * shockColor.Y()),
		B: uint8(255 * shockColor.Z()),
		A: uint8(255 * cp.Clamp01(alpha)),
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 3, clr, true)
	}
}

// polygon fills a convex screen polygon as a triangle fan.
func (r *Renderer) polygon(screen *ebiten.Image, pts []cp.Vector, c mgl64.Vec3, alpha float64, blend ebiten.Blend) {
	if len(pts) < 3 {
		return
	}
	verts := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		verts[i] = vertex(p.X, p.Y, 1.5, 1.5, c, alpha)
	}
	idx := make([]uint16, 0, 3*(len(pts)-2))
	for i := 1; i < len(pts)-1; i++ {
		idx = append(idx, 0, uint16(i), uint16(i+1))
	}
	screen.DrawTriangles(verts, idx, r.white, &ebiten.DrawTrianglesOptions{Blend: blend})
}

func (r *Renderer) begin(screen *ebiten.Image, src *ebiten.Image, blend ebiten.Blend) {
	if r.src != src || r.blend != blend {
		r.flush(screen)
		r.src = src
		r.blend = blend
	}
}

func (r *Renderer) quad(screen *ebiten.Image, p cp.Vector, half float64, c mgl64.Vec3, alpha float64) {
	if r.quads == maxQuads {
		r.flush(screen)
	}
	base := uint16(len(r.verts))
	r.verts = append(r.verts,
		vertex(p.X-half, p.Y-half, 0, 0, c, alpha),
		vertex(p.X+half, p.Y-half, dotSize, 0, c, alpha),
		vertex(p.X-half, p.Y+half, 0, dotSize, c, alpha),
		vertex(p.X+half, p.Y+half, dotSize, dotSize, c, alpha),
	)
	r.idx = append(r.idx, base, base+1, base+2, base+1, base+3, base+2)
	r.quads++
}

func (r *Renderer) flush(screen *ebiten.Image) {
	if r.quads > 0 && r.src != nil {
		screen.DrawTriangles(r.verts, r.idx, r.src, &ebiten.DrawTrianglesOptions{Blend: r.blend})
	}
	r.verts = r.verts[:0]
	r.idx = r.idx[:0]
	r.quads = 0
}

// vertex builds a vertex with premultiplied colour.
func vertex(x, y, sx, sy float64, c mgl64.Vec3, alpha float64) ebiten.Vertex {
	a := cp.Clamp01(alpha)
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   float32(sx),
		SrcY:   float32(sy),
		ColorR: float32(cp.Clamp01(c.X()) * a),
		ColorG: float32(cp.Clamp01(c.Y()) * a),
		ColorB: float32(cp.Clamp01(c.Z()) * a),
		ColorA: float32(a),
	}
}

// newDot builds a soft round sprite.
func newDot(size int) *ebiten.Image {
	pix := make([]byte, 4*size*size)
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			a := cp.Clamp01(1 - math.Sqrt(dx*dx+dy*dy))
			a = a * a
			v := byte(255 * a)
			// premultiplied
			i := 4 * (y*size + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}
