// Package physics provides interpolation and easing utilities shared by the
// track generator, the vehicle simulation and the collision system.
package physics

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseInOut maps t in [0, 1] through a quadratic S-curve: accelerating
// through the first half, decelerating through the second.
func EaseInOut(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	if t < 0.5 {
		return 2 * t * t
	}
	u := 1 - t
	return 1 - 2*u*u
}

// Approach moves current toward target by at most the given fraction of the
// remaining distance. fraction is clamped to [0, 1] so a large tick can never
// overshoot.
func Approach(current, target, fraction float64) float64 {
	return current + (target-current)*Clamp(fraction, 0, 1)
}
