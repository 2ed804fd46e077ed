package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsInOrder(t *testing.T) {
	var calls []string
	s := NewScheduler(
		SystemFunc(func(dt, elapsed float64) { calls = append(calls, "a") }),
	)
	s.Add(SystemFunc(func(dt, elapsed float64) { calls = append(calls, "b") }))
	s.Add(nil)

	s.Update(frame, 0)
	s.Update(frame, frame)

	assert.Equal(t, []string{"a", "b", "a", "b"}, calls)
	assert.Equal(t, 2, s.Len())
}

func TestSchedulerPassesTime(t *testing.T) {
	var gotDT, gotElapsed float64
	s := NewScheduler(SystemFunc(func(dt, elapsed float64) {
		gotDT, gotElapsed = dt, elapsed
	}))

	s.Update(0.02, 1.5)
	assert.Equal(t, 0.02, gotDT)
	assert.Equal(t, 1.5, gotElapsed)
}

func TestSchedulerReset(t *testing.T) {
	n := 0
	s := NewScheduler(SystemFunc(func(float64, float64) { n++ }))

	s.Reset()
	s.Update(frame, 0)

	assert.Zero(t, n)
	assert.Zero(t, s.Len())
}
