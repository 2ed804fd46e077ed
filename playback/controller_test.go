package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

func newController() *Controller {
	return NewController(6, nil)
}

func TestPlayTimeline(t *testing.T) {
	tests := []struct {
		at    time.Duration
		stage int
		state State
	}{
		{0, 0, AutoPlaying},
		{1199 * ms, 0, AutoPlaying},
		{1200 * ms, 1, AutoPlaying},
		{2400 * ms, 2, AutoPlaying},
		{3200 * ms, 3, AutoPlaying},
		{4400 * ms, 4, AutoPlaying},
		{5600 * ms, 5, AutoPlaying},
		{7599 * ms, 5, AutoPlaying},
		{7600 * ms, 5, Idle},
		{20 * time.Second, 5, Idle},
	}

	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			c := newController()
			c.Play(0)
			c.Tick(tt.at)
			assert.Equal(t, tt.stage, c.Stage())
			assert.Equal(t, tt.state, c.State())
		})
	}
}

func TestPlayFrameByFrame(t *testing.T) {
	c := newController()
	var seen []int
	c.OnChange = func(stage int) { seen = append(seen, stage) }

	c.Select(3)
	c.Play(0)
	for now := time.Duration(0); now <= 9*time.Second; now += 16 * ms {
		c.Tick(now)
	}

	assert.Equal(t, []int{3, 0, 1, 2, 3, 4, 5}, seen)
	assert.Equal(t, Idle, c.State())
	_, ok := c.Deadline()
	assert.False(t, ok)
}

func TestPlayRelativeToStart(t *testing.T) {
	c := newController()
	c.Play(10 * time.Second)

	c.Tick(11 * time.Second)
	assert.Equal(t, 0, c.Stage())
	c.Tick(11200 * ms)
	assert.Equal(t, 1, c.Stage())
}

func TestRestartWhilePlaying(t *testing.T) {
	c := newController()
	c.Play(0)
	c.Tick(2500 * ms)
	require.Equal(t, 2, c.Stage())

	c.Play(2500 * ms)
	assert.Equal(t, 0, c.Stage())
	c.Tick(3200 * ms)
	assert.Equal(t, 0, c.Stage(), "old deadline must not fire")
	c.Tick(3700 * ms)
	assert.Equal(t, 1, c.Stage())
}

func TestSelectCancelsPlayback(t *testing.T) {
	c := newController()
	c.Play(0)
	c.Select(4)

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 4, c.Stage())
	assert.False(t, c.Tick(time.Hour))
	assert.Equal(t, 4, c.Stage())
}

func TestSelectClamps(t *testing.T) {
	c := newController()
	c.Select(-1)
	assert.Equal(t, 0, c.Stage())
	c.Select(42)
	assert.Equal(t, 5, c.Stage())
}

func TestSetCompositeCancels(t *testing.T) {
	c := newController()
	c.Play(0)
	c.Tick(1300 * ms)

	c.SetComposite(true)
	assert.True(t, c.Composite())
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Tick(time.Hour))
	assert.Equal(t, 1, c.Stage())

	c.SetComposite(false)
	assert.False(t, c.Composite())
}

func TestPlayLeavesComposite(t *testing.T) {
	c := newController()
	c.SetComposite(true)
	c.Play(0)

	assert.False(t, c.Composite())
	assert.Equal(t, AutoPlaying, c.State())
	c.Tick(1200 * ms)
	assert.Equal(t, 1, c.Stage())
}

func TestStaleTimerNeverFires(t *testing.T) {
	c := newController()
	c.Play(0)
	stale := c.timer

	c.Stop()
	c.state = AutoPlaying
	c.timer = stale

	assert.False(t, c.Tick(time.Hour))
	assert.Equal(t, 0, c.Stage())
}

func TestShortDurationsRepeatLast(t *testing.T) {
	c := NewController(4, []time.Duration{100 * ms, 50 * ms})
	c.Play(0)

	c.Tick(100 * ms)
	assert.Equal(t, 1, c.Stage())
	c.Tick(150 * ms)
	assert.Equal(t, 2, c.Stage())
	c.Tick(200 * ms)
	assert.Equal(t, 3, c.Stage())
	c.Tick(250 * ms)
	assert.Equal(t, Idle, c.State())
}

func TestTickIdle(t *testing.T) {
	c := newController()
	assert.False(t, c.Tick(time.Hour))
	assert.Equal(t, 0, c.Stage())
	assert.Equal(t, "idle", c.State().String())
}

func TestDurationsCopied(t *testing.T) {
	d := []time.Duration{time.Second}
	c := NewController(2, d)
	d[0] = time.Hour

	got := c.Durations()
	assert.Equal(t, []time.Duration{time.Second}, got)
	got[0] = time.Minute
	assert.Equal(t, time.Second, c.Durations()[0])
}
