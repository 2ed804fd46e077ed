package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Gravity is the downward acceleration used by both kernels.
const Gravity = 9.81

const (
	coreHeight       = 0.5
	spawnRadius      = 0.25
	respawnRadius    = 0.2
	gravityScale     = 0.25
	windScale        = 0.25
	buoyancyMinY     = 0.2
	baseLifeDecay    = 0.12
	thermalLifeShare = 0.25
	groundBounce     = -0.12
	groundFriction   = 0.5
	groundCooling    = 0.7
)

// ParticleParams configures a ParticleSystem. Spawn fields are read on
// (re)initialization and respawn, the rest every frame.
type ParticleParams struct {
	Count        int
	BlastEnergy  float64
	AnisotropyUp float64
	AnisotropyXZ float64
	VerticalBias float64
	ColorA       mgl64.Vec3
	ColorB       mgl64.Vec3
	SizeMin      float64
	SizeMax      float64

	Drag         float64
	Buoyancy     float64
	ThermalDecay float64
	Wind         mgl64.Vec3
	// Noise scales the turbulence field; 0 disables it.
	Noise      float64
	NoiseScale float64
}

// ParticleSystem is a fixed population of point particles stored as
// parallel slices. Expired particles respawn in place; the population never
// changes between Reinitialize calls.
type ParticleSystem struct {
	params ParticleParams
	seed   int64
	rng    *Rand
	field  Field

	pos   []mgl64.Vec3
	vel   []mgl64.Vec3
	temp  []float64
	life  []float64
	size  []float64
	color []mgl64.Vec3
}

// NewParticleSystem builds and seeds a system. A nil field disables
// turbulence regardless of p.Noise.
func NewParticleSystem(p ParticleParams, seed int64, field Field) *ParticleSystem {
	s := &ParticleSystem{seed: seed, field: field}
	s.Reinitialize(p)
	return s
}

// Reinitialize reseeds every particle from p using the system's seed, so
// identical params always produce an identical snapshot.
func (s *ParticleSystem) Reinitialize(p ParticleParams) {
	if p.Count < 0 {
		p.Count = 0
	}
	if p.SizeMax < p.SizeMin {
		p.SizeMin, p.SizeMax = p.SizeMax, p.SizeMin
	}
	s.params = p
	s.rng = NewRand(s.seed)

	if len(s.pos) != p.Count {
		s.pos = make([]mgl64.Vec3, p.Count)
		s.vel = make([]mgl64.Vec3, p.Count)
		s.temp = make([]float64, p.Count)
		s.life = make([]float64, p.Count)
		s.size = make([]float64, p.Count)
		s.color = make([]mgl64.Vec3, p.Count)
	}

	for i := range s.pos {
		s.spawn(i, spawnRadius, 0.6, 1.2)
		t := s.rng.Float64()
		s.color[i] = p.ColorA.Add(p.ColorB.Sub(p.ColorA).Mul(t))
		s.size[i] = s.rng.Uniform(p.SizeMin, p.SizeMax)
	}
}

// Reconfigure is destroy-and-construct with new params; there is no
// incremental update and no state survives it.
func (s *ParticleSystem) Reconfigure(p ParticleParams) {
	s.Reinitialize(p)
}

// spawn seeds position, velocity, temperature and life of particle i.
func (s *ParticleSystem) spawn(i int, maxRadius, speedMin, speedMax float64) {
	p := &s.params
	up := mgl64.Vec3{0, 1, 0}

	d0 := s.rng.UnitVector()
	lateral := s.rng.HorizontalUnit()
	dir := d0.Add(up.Mul(p.AnisotropyUp)).Add(lateral.Mul(p.AnisotropyXZ))
	if l := dir.Len(); l > 1e-9 {
		dir = dir.Mul(1 / l)
	} else {
		dir = up
	}

	r := s.rng.Uniform(0, maxRadius)
	pos := dir.Mul(r)
	pos[1] += coreHeight + math.Abs(dir[1])*r

	v := p.BlastEnergy * s.rng.Uniform(speedMin, speedMax) / (1 + r)
	vb := p.VerticalBias
	vel := mgl64.Vec3{
		dir[0] * v,
		v * (vb*math.Abs(dir[1]) + (1-vb)*dir[1]),
		dir[2] * v,
	}

	s.pos[i] = pos
	s.vel[i] = vel
	s.temp[i] = 1
	s.life[i] = 1
}

// Advance steps every particle by dt seconds. elapsed is the clock time
// used to animate the turbulence field.
func (s *ParticleSystem) Advance(dt, elapsed float64) {
	if dt <= 0 || len(s.pos) == 0 {
		return
	}
	p := &s.params
	dragFactor := math.Max(0, 1-p.Drag)
	lifeDecay := (baseLifeDecay + p.ThermalDecay*thermalLifeShare) * dt
	turbulent := s.field != nil && p.Noise != 0
	noiseScale := p.NoiseScale
	if noiseScale == 0 {
		noiseScale = 1
	}

	for i := range s.pos {
		pos := &s.pos[i]
		vel := &s.vel[i]

		vel[1] -= Gravity * dt * gravityScale

		*vel = vel.Mul(dragFactor)

		if pos[1] > buoyancyMinY {
			vel[1] += p.Buoyancy * s.temp[i] * dt
			s.temp[i] = math.Max(0, s.temp[i]-p.ThermalDecay*dt)
		}

		vel[0] += p.Wind[0] * dt * windScale
		vel[2] += p.Wind[2] * dt * windScale

		if turbulent {
			n := s.field.Sample(pos.Mul(noiseScale), elapsed)
			*vel = vel.Add(n.Mul(p.Noise * dt))
		}

		*pos = pos.Add(vel.Mul(dt))

		s.life[i] = math.Max(0, s.life[i]-lifeDecay)

		if pos[1] < 0 {
			pos[1] = 0
			vel[1] *= groundBounce
			vel[0] *= groundFriction
			vel[2] *= groundFriction
			s.temp[i] *= groundCooling
		}

		if s.life[i] <= 0 {
			s.spawn(i, respawnRadius, 0.3, 0.9)
		}
	}
}

func (s *ParticleSystem) Len() int {
	return len(s.pos)
}

func (s *ParticleSystem) Params() ParticleParams {
	return s.params
}

// The view accessors below return the live slices. Callers must treat
// them as read-only and must not hold them across Reinitialize.

func (s *ParticleSystem) Positions() []mgl64.Vec3 { return s.pos }

func (s *ParticleSystem) Velocities() []mgl64.Vec3 { return s.vel }

func (s *ParticleSystem) Colors() []mgl64.Vec3 { return s.color }

func (s *ParticleSystem) Sizes() []float64 { return s.size }

func (s *ParticleSystem) Lives() []float64 { return s.life }

func (s *ParticleSystem) Temperatures() []float64 { return s.temp }
