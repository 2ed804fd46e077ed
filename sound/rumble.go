package sound

import (
	"encoding/binary"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/ojrac/opensimplex-go"
)

const (
	SampleRate = 44100
	// bytesPerFrame is two 16-bit channels.
	bytesPerFrame = 4

	minRumble = 0.6
	maxRumble = 3.0
)

// RumbleDuration is the length of the blast sound for an energy.
func RumbleDuration(energy float64) float64 {
	return cp.Clamp(minRumble+0.25*math.Max(0, energy), minRumble, maxRumble)
}

// Rumble synthesizes a low boom as 16-bit little-endian stereo PCM.
// Louder and longer blasts come from higher energy. The output is fully
// determined by the arguments.
func Rumble(energy float64, sampleRate int, seed int64) []byte {
	if sampleRate <= 0 {
		return nil
	}
	energy = math.Max(0, energy)
	duration := RumbleDuration(energy)
	frames := int(duration * float64(sampleRate))
	out := make([]byte, frames*bytesPerFrame)

	noise := opensimplex.New(seed)
	gain := cp.Clamp(0.25+0.06*energy, 0.25, 0.85)
	// low thump frequency falls as energy rises
	thump := cp.Clamp(55-2.5*energy, 28, 55)
	attack := 0.01 * float64(sampleRate)

	var lp float64
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		env := math.Exp(-3 * t / duration)
		if fi := float64(i); fi < attack {
			env *= fi / attack
		}

		n := noise.Eval2(t*180, 0) + 0.5*noise.Eval2(t*420, 7.3)
		lp += (n - lp) * 0.08
		tone := math.Sin(2 * math.Pi * thump * t * (1 - 0.2*t/duration))
		v := cp.Clamp((0.7*lp+0.5*tone)*env*gain, -1, 1)

		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame:], s)
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame+2:], s)
	}
	return out
}
