package playback

import (
	"time"
)

// State is the controller mode.
type State int

const (
	Idle State = iota
	AutoPlaying
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AutoPlaying:
		return "auto-playing"
	default:
		return "unknown"
	}
}

// CanonicalDurations is the hold time for each stage of the timeline.
func CanonicalDurations() []time.Duration {
	return []time.Duration{
		1200 * time.Millisecond,
		1200 * time.Millisecond,
		800 * time.Millisecond,
		1200 * time.Millisecond,
		1200 * time.Millisecond,
		2000 * time.Millisecond,
	}
}

// timer is a deadline owned by one arming. A timer whose generation no
// longer matches the controller's is stale and never fires.
type timer struct {
	deadline time.Duration
	gen      uint64
	armed    bool
}

// Controller steps through the stages on a timeline. It has no goroutine:
// Tick is called once per frame with the current time.
type Controller struct {
	stages    int
	durations []time.Duration

	state     State
	stage     int
	composite bool

	gen   uint64
	timer timer

	// OnChange is called with the new stage whenever it changes.
	OnChange func(stage int)
}

// NewController returns an idle controller at stage 0. Empty durations
// select the canonical table.
func NewController(stages int, durations []time.Duration) *Controller {
	if stages < 1 {
		stages = 1
	}
	c := &Controller{stages: stages}
	c.SetDurations(durations)
	return c
}

// SetDurations replaces the timeline. It does not affect an armed timer.
func (c *Controller) SetDurations(durations []time.Duration) {
	if len(durations) == 0 {
		durations = CanonicalDurations()
	}
	c.durations = append([]time.Duration(nil), durations...)
}

func (c *Controller) Durations() []time.Duration {
	return append([]time.Duration(nil), c.durations...)
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Stage() int {
	return c.stage
}

func (c *Controller) Composite() bool {
	return c.composite
}

// Select jumps to stage i (clamped). Any auto-play is cancelled.
func (c *Controller) Select(i int) {
	c.cancel()
	c.setStage(c.clamp(i))
}

// Play restarts the timeline from stage 0. The sequence steps through
// single stages, so composite mode is left.
func (c *Controller) Play(now time.Duration) {
	c.cancel()
	c.composite = false
	c.state = AutoPlaying
	c.setStage(0)
	c.arm(now)
}

// Stop cancels auto-play and keeps the current stage.
func (c *Controller) Stop() {
	c.cancel()
}

// SetComposite toggles the all-stages view. Auto-play is cancelled either
// way.
func (c *Controller) SetComposite(on bool) {
	c.cancel()
	c.composite = on
}

// Tick fires every deadline that has passed by now. It reports whether
// the stage changed.
func (c *Controller) Tick(now time.Duration) bool {
	changed := false
	for c.state == AutoPlaying && c.timer.armed && c.timer.gen == c.gen && now >= c.timer.deadline {
		deadline := c.timer.deadline
		c.timer.armed = false

		if c.stage+1 >= c.stages {
			c.cancel()
			break
		}
		c.setStage(c.stage + 1)
		changed = true
		c.arm(deadline)
	}
	return changed
}

// Deadline returns the pending deadline, if any.
func (c *Controller) Deadline() (time.Duration, bool) {
	if c.state != AutoPlaying || !c.timer.armed || c.timer.gen != c.gen {
		return 0, false
	}
	return c.timer.deadline, true
}

// arm schedules the hold for the current stage starting at from.
func (c *Controller) arm(from time.Duration) {
	c.gen++
	c.timer = timer{
		deadline: from + c.durations[min(c.stage, len(c.durations)-1)],
		gen:      c.gen,
		armed:    true,
	}
}

func (c *Controller) cancel() {
	c.gen++
	c.timer = timer{}
	c.state = Idle
}

func (c *Controller) setStage(i int) {
	if i == c.stage {
		return
	}
	c.stage = i
	if c.OnChange != nil {
		c.OnChange(i)
	}
}

func (c *Controller) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= c.stages {
		return c.stages - 1
	}
	return i
}
