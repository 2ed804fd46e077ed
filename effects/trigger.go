package effects

import (
	"math"
	"time"
)

// MinStage is the first stage that produces a shockwave, scorch and shake.
const MinStage = 2

// TriggerKey identifies the event a transient effect belongs to. Re-arming
// with an equal key is ignored.
type TriggerKey struct {
	Stage int
	// Energy is the effective blast energy in tenths.
	Energy    int
	Composite bool
}

func KeyFor(stage int, energy float64, composite bool) TriggerKey {
	return TriggerKey{
		Stage:     stage,
		Energy:    int(math.Round(energy * 10)),
		Composite: composite,
	}
}

// Armable reports whether effects fire for this key at all.
func (k TriggerKey) Armable() bool {
	return k.Composite || k.Stage >= MinStage
}

// Trigger holds the start time of the last armed event.
type Trigger struct {
	key   TriggerKey
	start time.Duration
	armed bool
}

// Arm restarts the trigger at now unless it is already armed with key.
func (t *Trigger) Arm(key TriggerKey, now time.Duration) bool {
	if t.armed && t.key == key {
		return false
	}
	t.key = key
	t.start = now
	t.armed = true
	return true
}

func (t *Trigger) Reset() {
	*t = Trigger{}
}

func (t *Trigger) Armed() bool {
	return t.armed
}

func (t *Trigger) Key() TriggerKey {
	return t.key
}

func (t *Trigger) Start() time.Duration {
	return t.start
}

// Elapsed returns seconds since the trigger was armed, never negative.
func (t *Trigger) Elapsed(now time.Duration) float64 {
	if !t.armed || now < t.start {
		return 0
	}
	return (now - t.start).Seconds()
}
