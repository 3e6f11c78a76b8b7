// Package sphere interpolates values sampled on a regular (theta, phi) grid
// over the sphere. Azimuth is periodic, theta is clamped to the sampled
// range, and negative theta is read as the mirror point through the pole.
package sphere

import "math"

const twoPi = 2 * math.Pi

// WrapTwoPi wraps an angle in radians to [0, 2pi).
func WrapTwoPi(rad float64) float64 {
	if rad >= 0 && rad < twoPi {
		return rad
	}
	rad = math.Mod(rad, twoPi)
	if rad < 0 {
		rad += twoPi
	}
	// Mod of a value just below 0 can round up to exactly 2pi.
	if rad >= twoPi {
		rad = 0
	}
	return rad
}

// Normalize maps a query direction to theta >= 0 and phi in [0, 2pi).
// A negative theta lies behind the pole, in the opposite azimuth half
// plane: phi is shifted by pi and theta reflected. NaN angles read as 0.
func Normalize(theta, phi float64) (float64, float64) {
	if math.IsNaN(theta) {
		theta = 0
	}
	if math.IsNaN(phi) || math.IsInf(phi, 0) {
		phi = 0
	}
	if theta < 0 {
		phi += math.Pi
		theta = -theta
	}
	return theta, WrapTwoPi(phi)
}
