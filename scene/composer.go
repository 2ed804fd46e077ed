package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/reactorsim/effects"
	"github.com/milk9111/reactorsim/presets"
	"github.com/milk9111/reactorsim/sim"
	"go.uber.org/zap"
)

// ErrRendererUnavailable means the drawing backend cannot host the scene.
// Callers show a fallback instead; there is no retry.
var ErrRendererUnavailable = errors.New("scene: renderer unavailable")

// CompositeSpacing is the distance between stage groups along X in
// composite mode.
const CompositeSpacing = 9.0

// Probe reports whether rendering is possible.
type Probe func() error

// Options configure a Composer.
type Options struct {
	Seed int64
	// Field names the turbulence field: "trig" (default) or "simplex".
	Field  string
	Logger *zap.Logger
}

// Selection is what the composer is currently showing.
type Selection struct {
	Stage     int
	Composite bool
	Overrides presets.Overrides
}

// Composer owns every live system for the current selection. Selecting
// discards all of them and builds new ones; nothing carries over.
type Composer struct {
	table *presets.Table
	opts  Options
	log   *zap.Logger

	sched     *Scheduler
	groups    []*Group
	selection Selection
	built     bool
}

// Build probes the renderer and returns a composer, or an error wrapping
// ErrRendererUnavailable.
func Build(probe Probe, table *presets.Table, opts Options) (*Composer, error) {
	if probe != nil {
		if err := probe(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
		}
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: empty preset table", ErrRendererUnavailable)
	}
	return NewComposer(table, opts), nil
}

func NewComposer(table *presets.Table, opts Options) *Composer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{
		table: table,
		opts:  opts,
		log:   log,
		sched: NewScheduler(),
	}
}

// NewSelection normalizes a requested selection against table. Composite
// selections ignore stage.
func NewSelection(table *presets.Table, stage int, composite bool, o presets.Overrides) Selection {
	if composite {
		stage = 0
	}
	return Selection{
		Stage:     table.ClampIndex(stage),
		Composite: composite,
		Overrides: o.Clamped(),
	}
}

// Select rebuilds the scene for stage (clamped) or, when composite, for
// every stage at once. It returns the effective selection; composite
// selections always report stage 0 since no single stage is active.
func (c *Composer) Select(stage int, composite bool, o presets.Overrides) Selection {
	sel := NewSelection(c.table, stage, composite, o)

	c.sched.Reset()
	c.groups = nil

	if composite {
		n := c.table.Len()
		for i := 0; i < n; i++ {
			offset := mgl64.Vec3{(float64(i) - float64(n-1)/2) * CompositeSpacing, 0, 0}
			c.addGroup(i, sel.Overrides, offset)
		}
	} else {
		c.addGroup(sel.Stage, sel.Overrides, mgl64.Vec3{})
	}

	c.selection = sel
	c.built = true
	c.log.Debug("scene rebuilt",
		zap.Int("stage", sel.Stage),
		zap.Bool("composite", composite),
		zap.Float64("energy_scale", sel.Overrides.EnergyScale),
		zap.Float64("drag_offset", sel.Overrides.DragOffset),
		zap.Int("groups", len(c.groups)),
		zap.Int("systems", c.sched.Len()),
	)
	return sel
}

// SetTable swaps the preset table and rebuilds the current selection.
func (c *Composer) SetTable(t *presets.Table) {
	if t == nil || t.Len() == 0 {
		return
	}
	c.table = t
	if c.built {
		c.Select(c.selection.Stage, c.selection.Composite, c.selection.Overrides)
	}
}

func (c *Composer) addGroup(stage int, o presets.Overrides, offset mgl64.Vec3) {
	p := o.Apply(c.table.At(stage))
	g := &Group{
		Stage:  stage,
		Title:  p.Title,
		Heat:   p.Heat,
		Energy: p.BlastEnergy,
		Offset: offset,
	}

	for i, style := range LayerStyles {
		seed := systemSeed(c.opts.Seed, stage, i)
		ps := sim.NewParticleSystem(LayerParams(p, style), seed, sim.NewField(c.opts.Field, seed))
		g.Layers = append(g.Layers, Layer{Kind: style.Kind, Blend: style.Blend, System: ps})
		c.sched.Add(ps)
	}

	debris := sim.NewDebrisSystem(stage, p.BlastEnergy, systemSeed(c.opts.Seed, stage, len(LayerStyles)))
	g.Debris = debris
	if debris.Len() > 0 {
		c.sched.Add(SystemFunc(func(dt, _ float64) { debris.Advance(dt) }))
	}

	c.groups = append(c.groups, g)
}

// systemSeed gives every (stage, layer) pair its own stream so reselecting
// a stage reproduces it exactly.
func systemSeed(base int64, stage, layer int) int64 {
	return base*1_000_003 + int64(stage)*101 + int64(layer)
}

// Advance steps every live system once.
func (c *Composer) Advance(dt, elapsed float64) {
	c.sched.Update(dt, elapsed)
}

// Groups returns the live groups. The slice is only valid until the next
// Select.
func (c *Composer) Groups() []*Group {
	return c.groups
}

func (c *Composer) Selection() Selection {
	return c.selection
}

func (c *Composer) Table() *presets.Table {
	return c.table
}

// EffectKey is the transient-effect trigger key for the current selection.
// Composite mode keys on the last stage, the one that carries the blast.
func (c *Composer) EffectKey() (effects.TriggerKey, float64) {
	stage := c.selection.Stage
	if c.selection.Composite {
		stage = c.table.Len() - 1
	}
	energy := c.selection.Overrides.Apply(c.table.At(stage)).BlastEnergy
	return effects.KeyFor(stage, energy, c.selection.Composite), energy
}

// Heat is the scene-wide glow: the active group's heat, or the hottest
// group in composite mode.
func (c *Composer) Heat() float64 {
	var h float64
	for _, g := range c.groups {
		if g.Heat > h {
			h = g.Heat
		}
	}
	return h
}
