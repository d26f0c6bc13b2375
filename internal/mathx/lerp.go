package mathx

import "golang.org/x/exp/constraints"

// Lerp returns the linear interpolation between a and b at t, where t is
// typically in [0,1] but is not clamped here.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// InvLerp returns the t such that Lerp(a, b, t) == v, given a != b.
func InvLerp[T constraints.Float](a, b, v T) T {
	return (v - a) / (b - a)
}
