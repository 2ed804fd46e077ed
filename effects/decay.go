package effects

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	shockMaxRadius  = 60
	scorchMaxRadius = 12
	scorchMaxAlpha  = 0.4
	shockRingAlpha  = 0.8
	shakeDecay      = 4
)

// Shockwave returns the ground ring's radius and opacity elapsed seconds
// after the trigger.
func Shockwave(elapsed float64) (radius, opacity float64) {
	radius = math.Min(shockMaxRadius, 2+elapsed*12)
	opacity = cp.Clamp01(1 - elapsed*0.6)
	return radius, opacity
}

// ShockAlpha is the ring's drawn alpha: the decay opacity times the ring
// material's base alpha.
func ShockAlpha(elapsed float64) float64 {
	_, o := Shockwave(elapsed)
	return o * shockRingAlpha
}

// Scorch returns the ground decal's radius and opacity.
func Scorch(elapsed float64) (radius, opacity float64) {
	radius = math.Min(scorchMaxRadius, elapsed*6)
	opacity = cp.Clamp(scorchMaxAlpha-elapsed*0.1, 0, scorchMaxAlpha)
	return radius, opacity
}

// ShakeAmplitude decays the shake strength exponentially.
func ShakeAmplitude(strength, elapsed float64) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return strength * math.Exp(-shakeDecay*elapsed)
}

// Shake returns a camera position jitter and roll (radians). It is a pure
// function of elapsed so a replay shakes the same way.
func Shake(strength, elapsed float64) (offset mgl64.Vec3, roll float64) {
	amp := ShakeAmplitude(strength, elapsed)
	if amp == 0 {
		return mgl64.Vec3{}, 0
	}
	offset = mgl64.Vec3{
		math.Sin(elapsed*47) * amp,
		math.Sin(elapsed*53+1.3) * amp * 0.6,
		math.Cos(elapsed*41) * amp * 0.4,
	}
	roll = math.Sin(elapsed*37+0.7) * amp * 0.03
	return offset, roll
}

// ShakeStrength maps effective blast energy to a shake amplitude in scene
// units.
func ShakeStrength(energy float64) float64 {
	return cp.Clamp(energy*0.04, 0, 0.5)
}
