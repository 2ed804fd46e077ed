package sound

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peak(pcm []byte) int {
	m := 0
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int(int16(binary.LittleEndian.Uint16(pcm[i:])))
		if v < 0 {
			v = -v
		}
		m = max(m, v)
	}
	return m
}

func TestRumbleLength(t *testing.T) {
	pcm := Rumble(4, SampleRate, 1)
	frames := int(RumbleDuration(4) * SampleRate)
	assert.Len(t, pcm, frames*bytesPerFrame)
}

func TestRumbleDurationBounds(t *testing.T) {
	assert.Equal(t, minRumble, RumbleDuration(-5))
	assert.Equal(t, minRumble, RumbleDuration(0))
	assert.Equal(t, maxRumble, RumbleDuration(1000))
	assert.Less(t, RumbleDuration(1), RumbleDuration(5))
}

func TestRumbleDeterministic(t *testing.T) {
	assert.Equal(t, Rumble(3, SampleRate, 9), Rumble(3, SampleRate, 9))
	assert.NotEqual(t, Rumble(3, SampleRate, 9), Rumble(3, SampleRate, 10))
}

func TestRumbleStereoAndAudible(t *testing.T) {
	pcm := Rumble(7.5, SampleRate, 2)
	require.NotEmpty(t, pcm)

	for i := 0; i < len(pcm); i += bytesPerFrame * 97 {
		assert.Equal(t, pcm[i:i+2], pcm[i+2:i+4])
	}
	assert.Greater(t, peak(pcm), 1000)
}

func TestRumbleFadesOut(t *testing.T) {
	pcm := Rumble(5, SampleRate, 3)
	tail := pcm[len(pcm)*9/10:]
	head := pcm[:len(pcm)/5]
	assert.Less(t, peak(tail), peak(head))
}

func TestRumbleBadRate(t *testing.T) {
	assert.Nil(t, Rumble(1, 0, 1))
}

func TestMutedPlayer(t *testing.T) {
	p := NewPlayer(true, 1, nil)
	assert.True(t, p.Muted())
	p.Blast(10)
	p.Close()
}
