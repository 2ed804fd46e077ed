package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/reactorsim/presets"
	"github.com/milk9111/reactorsim/sim"
)

type LayerKind int

const (
	Fireball LayerKind = iota
	Smoke
	Embers
)

func (k LayerKind) String() string {
	switch k {
	case Fireball:
		return "fireball"
	case Smoke:
		return "smoke"
	case Embers:
		return "embers"
	default:
		return "unknown"
	}
}

// Blend is how a layer's sprites combine with what is behind them.
type Blend int

const (
	BlendAdditive Blend = iota
	BlendAlpha
)

// LayerStyle derives one layer's particle parameters from a stage preset.
type LayerStyle struct {
	Kind          LayerKind
	Blend         Blend
	CountScale    float64
	SizeMin       float64
	SizeMax       float64
	EnergyScale   float64
	BuoyancyScale float64
	DragOffset    float64
	Noise         float64
	NoiseScale    float64
	// Palette replaces the preset colors when set.
	Palette *[2]color.NRGBA
}

var (
	smokePalette = [2]color.NRGBA{{R: 0x3b, G: 0x3b, B: 0x3b, A: 0xff}, {R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff}}
	emberPalette = [2]color.NRGBA{{R: 0xff, G: 0x7a, B: 0x1a, A: 0xff}, {R: 0xff, G: 0xd2, B: 0x3f, A: 0xff}}
)

// LayerStyles lists the layers built for every stage, back to front.
var LayerStyles = []LayerStyle{
	{
		Kind:          Smoke,
		Blend:         BlendAlpha,
		CountScale:    0.6,
		SizeMin:       0.09,
		SizeMax:       0.29,
		EnergyScale:   0.6,
		BuoyancyScale: 1.5,
		DragOffset:    0.02,
		Noise:         1.2,
		NoiseScale:    0.35,
		Palette:       &smokePalette,
	},
	{
		Kind:          Fireball,
		Blend:         BlendAdditive,
		CountScale:    1,
		SizeMin:       0.05,
		SizeMax:       0.16,
		EnergyScale:   1,
		BuoyancyScale: 1,
		Noise:         0.6,
		NoiseScale:    0.5,
	},
	{
		Kind:          Embers,
		Blend:         BlendAdditive,
		CountScale:    0.25,
		SizeMin:       0.025,
		SizeMax:       0.08,
		EnergyScale:   1.3,
		BuoyancyScale: 0.4,
		Noise:         0.3,
		NoiseScale:    0.8,
		Palette:       &emberPalette,
	},
}

// LayerParams converts a (possibly overridden) preset into particle params
// for style.
func LayerParams(p presets.StagePreset, style LayerStyle) sim.ParticleParams {
	colorA, colorB := p.ColorA, p.ColorB
	if style.Palette != nil {
		colorA, colorB = style.Palette[0], style.Palette[1]
	}
	count := int(float64(p.Count)*style.CountScale + 0.5)
	if count < 1 {
		count = 1
	}
	drag := p.Drag + style.DragOffset
	if drag < 0 {
		drag = 0
	}
	return sim.ParticleParams{
		Count:        count,
		BlastEnergy:  p.BlastEnergy * style.EnergyScale,
		AnisotropyUp: p.AnisotropyUp,
		AnisotropyXZ: p.AnisotropyXZ,
		VerticalBias: p.VerticalBias,
		ColorA:       ColorVec(colorA),
		ColorB:       ColorVec(colorB),
		SizeMin:      style.SizeMin,
		SizeMax:      style.SizeMax,
		Drag:         drag,
		Buoyancy:     p.Buoyancy * style.BuoyancyScale,
		ThermalDecay: p.ThermalDecay,
		Wind:         p.Wind,
		Noise:        style.Noise,
		NoiseScale:   style.NoiseScale,
	}
}

// ColorVec converts a color to linear-ish 0..1 RGB.
func ColorVec(c color.NRGBA) mgl64.Vec3 {
	return mgl64.Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Layer is one live particle system in a group.
type Layer struct {
	Kind   LayerKind
	Blend  Blend
	System *sim.ParticleSystem
}

// Group is the full set of systems representing one stage.
type Group struct {
	Stage  int
	Title  string
	Heat   float64
	Energy float64
	// Offset places the group in the scene; zero unless composite.
	Offset mgl64.Vec3
	Layers []Layer
	Debris *sim.DebrisSystem
}

// Particles returns the total particle count across layers.
func (g *Group) Particles() int {
	n := 0
	for _, l := range g.Layers {
		n += l.System.Len()
	}
	return n
}
