package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/reactorsim/effects"
	"github.com/milk9111/reactorsim/presets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := Build(func() error { return nil }, presets.Default(), Options{Seed: 7})
	require.NoError(t, err)
	return c
}

func TestBuildProbeFailure(t *testing.T) {
	c, err := Build(func() error { return errors.New("no gpu") }, presets.Default(), Options{})
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRendererUnavailable))
	assert.Contains(t, err.Error(), "no gpu")
}

func TestBuildEmptyTable(t *testing.T) {
	_, err := Build(nil, nil, Options{})
	assert.True(t, errors.Is(err, ErrRendererUnavailable))
}

func TestSelectSingleStage(t *testing.T) {
	c := newTestComposer(t)
	table := c.Table()

	sel := c.Select(0, false, presets.DefaultOverrides())
	assert.Equal(t, 0, sel.Stage)
	require.Len(t, c.Groups(), 1)

	g := c.Groups()[0]
	assert.Equal(t, 0, g.Stage)
	assert.Equal(t, table.At(0).Title, g.Title)
	assert.Equal(t, table.At(0).Heat, g.Heat)
	require.Len(t, g.Layers, len(LayerStyles))
	assert.Equal(t, 0, g.Debris.Len())

	// three particle layers, no debris system for a quiet stage
	assert.Equal(t, 3, c.sched.Len())

	for _, l := range g.Layers {
		if l.Kind == Fireball {
			assert.Equal(t, table.At(0).Count, l.System.Len())
		}
	}
}

func TestSelectClampsStage(t *testing.T) {
	c := newTestComposer(t)

	assert.Equal(t, 0, c.Select(-4, false, presets.DefaultOverrides()).Stage)
	assert.Equal(t, c.Table().Len()-1, c.Select(99, false, presets.DefaultOverrides()).Stage)
}

func TestSelectDebrisStages(t *testing.T) {
	c := newTestComposer(t)

	c.Select(2, false, presets.DefaultOverrides())
	assert.Equal(t, 60, c.Groups()[0].Debris.Len())
	assert.Equal(t, 4, c.sched.Len())

	c.Select(3, false, presets.DefaultOverrides())
	assert.Equal(t, 160, c.Groups()[0].Debris.Len())
}

func TestSelectComposite(t *testing.T) {
	c := newTestComposer(t)

	sel := c.Select(1, true, presets.DefaultOverrides())
	assert.True(t, sel.Composite)
	assert.Equal(t, 0, sel.Stage)
	assert.Equal(t, sel, NewSelection(c.Table(), 4, true, presets.DefaultOverrides()))
	groups := c.Groups()
	require.Len(t, groups, c.Table().Len())

	for i, g := range groups {
		assert.Equal(t, i, g.Stage)
		assert.Equal(t, c.Table().At(i).Title, g.Title)
		if i > 0 {
			assert.InDelta(t, CompositeSpacing, g.Offset.X()-groups[i-1].Offset.X(), 1e-9)
		}
	}
	// centred on the origin
	assert.InDelta(t, 0, groups[0].Offset.X()+groups[len(groups)-1].Offset.X(), 1e-9)
}

func TestSelectDiscardsPreviousSystems(t *testing.T) {
	c := newTestComposer(t)

	c.Select(4, true, presets.DefaultOverrides())
	old := c.Groups()
	c.Select(1, false, presets.DefaultOverrides())

	require.Len(t, c.Groups(), 1)
	assert.Equal(t, 3, c.sched.Len())
	assert.NotSame(t, old[1], c.Groups()[0])
}

func TestStageSwitchIsReproducible(t *testing.T) {
	c := newTestComposer(t)

	c.Select(3, false, presets.DefaultOverrides())
	want := append([]mgl64.Vec3(nil), c.Groups()[0].Layers[0].System.Positions()...)

	c.Select(1, false, presets.DefaultOverrides())
	for i := 0; i < 30; i++ {
		c.Advance(frame, float64(i)*frame)
	}
	c.Select(3, false, presets.DefaultOverrides())

	assert.Equal(t, want, c.Groups()[0].Layers[0].System.Positions())
}

func TestSelectAppliesOverrides(t *testing.T) {
	c := newTestComposer(t)
	base := c.Table().At(3)

	sel := c.Select(3, false, presets.Overrides{EnergyScale: 2, DragOffset: 0.1})
	assert.Equal(t, 2.0, sel.Overrides.EnergyScale)

	g := c.Groups()[0]
	assert.InDelta(t, base.BlastEnergy*2, g.Energy, 1e-9)
	for _, l := range g.Layers {
		style := styleFor(t, l.Kind)
		params := l.System.Params()
		assert.InDelta(t, base.BlastEnergy*2*style.EnergyScale, params.BlastEnergy, 1e-9)
		assert.InDelta(t, base.Drag+0.1+style.DragOffset, params.Drag, 1e-9)
	}

	sel = c.Select(3, false, presets.Overrides{EnergyScale: 50, DragOffset: -3})
	assert.Equal(t, presets.MaxEnergyScale, sel.Overrides.EnergyScale)
	assert.Equal(t, presets.MinDragOffset, sel.Overrides.DragOffset)
	for _, l := range c.Groups()[0].Layers {
		assert.GreaterOrEqual(t, l.System.Params().Drag, 0.0)
	}
}

func TestAdvanceMovesParticles(t *testing.T) {
	c := newTestComposer(t)
	c.Select(3, false, presets.DefaultOverrides())

	g := c.Groups()[0]
	before := g.Layers[0].System.Positions()[0]
	debrisBefore := g.Debris.Body(0).Pos
	c.Advance(frame, frame)

	assert.NotEqual(t, before, g.Layers[0].System.Positions()[0])
	assert.NotEqual(t, debrisBefore, g.Debris.Body(0).Pos)
}

func TestEffectKey(t *testing.T) {
	c := newTestComposer(t)
	table := c.Table()

	c.Select(1, false, presets.DefaultOverrides())
	key, _ := c.EffectKey()
	assert.False(t, key.Armable())

	c.Select(3, false, presets.DefaultOverrides())
	key, energy := c.EffectKey()
	assert.Equal(t, effects.KeyFor(3, table.At(3).BlastEnergy, false), key)
	assert.Equal(t, table.At(3).BlastEnergy, energy)

	c.Select(0, true, presets.DefaultOverrides())
	key, _ = c.EffectKey()
	assert.True(t, key.Composite)
	assert.Equal(t, table.Len()-1, key.Stage)
	assert.True(t, key.Armable())
}

func TestSetTableRebuilds(t *testing.T) {
	c := newTestComposer(t)
	c.Select(2, false, presets.DefaultOverrides())

	spec := c.Table().Spec()
	spec.Stages[2].Title = "Reloaded"
	spec.Stages[2].Count = 10
	table, err := presets.NewTable(spec)
	require.NoError(t, err)

	c.SetTable(table)
	g := c.Groups()[0]
	assert.Equal(t, "Reloaded", g.Title)
	for _, l := range g.Layers {
		if l.Kind == Fireball {
			assert.Equal(t, 10, l.System.Len())
		}
	}

	c.SetTable(nil)
	assert.Same(t, table, c.Table())
}

func TestHeat(t *testing.T) {
	c := newTestComposer(t)
	c.Select(0, true, presets.DefaultOverrides())

	var want float64
	for _, p := range c.Table().All() {
		want = max(want, p.Heat)
	}
	assert.Equal(t, want, c.Heat())

	c.Select(1, false, presets.DefaultOverrides())
	assert.Equal(t, c.Table().At(1).Heat, c.Heat())
}

func styleFor(t *testing.T, kind LayerKind) LayerStyle {
	t.Helper()
	for _, s := range LayerStyles {
		if s.Kind == kind {
			return s
		}
	}
	t.Fatalf("no style for %v", kind)
	return LayerStyle{}
}
