package main

import (
	"math"
	"time"

	"github.com/milk9111/reactorsim/common"
	"github.com/milk9111/reactorsim/effects"
	"github.com/milk9111/reactorsim/presets"
	"github.com/milk9111/reactorsim/scene"
	"github.com/milk9111/reactorsim/sim"
	"go.uber.org/zap"
)

// groundEpsilon counts a particle as resting on the ground.
const groundEpsilon = 1e-3

// StageStats summarizes one stage after a fixed number of frames.
type StageStats struct {
	Stage     int
	Title     string
	Energy    float64
	Particles int
	Respawns  int
	MeanY     float64
	MaxY      float64
	MeanSpeed float64
	MeanTemp  float64
	Grounded  float64
	Debris    int
	DebrisMax float64
	Shock     float64
	Scorch    float64
	Finite    bool
}

type RunConfig struct {
	Frames    int
	DT        float64
	Seed      int64
	Noise     string
	Overrides presets.Overrides
}

// Run simulates every stage of table headless and returns one row per stage.
func Run(table *presets.Table, cfg RunConfig, log *zap.Logger) []StageStats {
	composer := scene.NewComposer(table, scene.Options{Seed: cfg.Seed, Field: cfg.Noise, Logger: log})
	out := make([]StageStats, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		out = append(out, runStage(composer, i, cfg))
	}
	return out
}

func runStage(composer *scene.Composer, stage int, cfg RunConfig) StageStats {
	composer.Select(stage, false, cfg.Overrides)
	clock := sim.NewClock()

	var fx effects.Set
	key, energy := composer.EffectKey()
	fx.Update(key, energy, clock.Now())

	group := composer.Groups()[0]
	prevLife := make([][]float64, len(group.Layers))
	for i, l := range group.Layers {
		prevLife[i] = append([]float64(nil), l.System.Lives()...)
	}

	respawns := 0
	for f := 0; f < cfg.Frames; f++ {
		clock.Tick(cfg.DT)
		composer.Advance(clock.Delta(), clock.Elapsed())
		for i, l := range group.Layers {
			for j, life := range l.System.Lives() {
				if life > prevLife[i][j] {
					respawns++
				}
				prevLife[i][j] = life
			}
		}
	}

	st := StageStats{
		Stage:    stage,
		Title:    group.Title,
		Energy:   group.Energy,
		Respawns: respawns,
		Finite:   true,
	}
	var sumY, sumSpeed, sumTemp float64
	grounded := 0
	for _, l := range group.Layers {
		sys := l.System
		temps := sys.Temperatures()
		vels := sys.Velocities()
		for j, p := range sys.Positions() {
			if !common.Finite(p.X()) || !common.Finite(p.Y()) || !common.Finite(p.Z()) || !common.Finite(vels[j].Len()) {
				st.Finite = false
				continue
			}
			st.Particles++
			sumY += p.Y()
			st.MaxY = math.Max(st.MaxY, p.Y())
			sumSpeed += vels[j].Len()
			sumTemp += temps[j]
			if p.Y() <= groundEpsilon {
				grounded++
			}
		}
	}
	if st.Particles > 0 {
		n := float64(st.Particles)
		st.MeanY = sumY / n
		st.MeanSpeed = sumSpeed / n
		st.MeanTemp = sumTemp / n
		st.Grounded = float64(grounded) / n
	}

	st.Debris = group.Debris.Len()
	for i := 0; i < st.Debris; i++ {
		pos, _, _ := group.Debris.Transform(i)
		st.DebrisMax = math.Max(st.DebrisMax, math.Hypot(pos.X(), pos.Z()))
	}

	state := fx.State(clock.Now())
	st.Shock = state.ShockRadius
	st.Scorch = state.ScorchRadius
	return st
}

// SimulatedTime is how long a run covers.
func SimulatedTime(cfg RunConfig) time.Duration {
	c := sim.NewClock()
	for i := 0; i < cfg.Frames; i++ {
		c.Tick(cfg.DT)
	}
	return c.Now()
}
