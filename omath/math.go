package omath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Lerp interpolates between a and b by t, with t clamped to [0, 1].
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*Clamp(t, 0, 1)
}

// Clamp limits num to the range [min, max].
func Clamp(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// HzLen returns the length of a vector projected on the horizontal plane.
func HzLen(v mgl32.Vec3) float32 {
	return math32.Sqrt(v.X()*v.X() + v.Z()*v.Z())
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}
