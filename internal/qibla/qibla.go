// Package qibla computes the compass bearing toward the Kaaba.
package qibla

import "math"

// Kaaba coordinates in decimal degrees.
const (
	KaabaLatitude  = 21.4225
	KaabaLongitude = 39.8262
)

// Bearing returns the great-circle initial bearing from (lat, lng) to the
// Kaaba, in whole degrees clockwise from true north, within [0, 360).
// NaN input yields 0.
func Bearing(lat, lng float64) int {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return 0
	}

	phi := radians(lat)
	phiK := radians(KaabaLatitude)
	dLambda := radians(KaabaLongitude - lng)

	theta := math.Atan2(
		math.Sin(dLambda),
		math.Cos(phi)*math.Tan(phiK)-math.Sin(phi)*math.Cos(dLambda),
	)

	deg := degrees(theta)
	if deg < 0 {
		deg += 360
	}

	b := int(math.Round(deg))
	if b >= 360 {
		b -= 360
	}
	return b
}

func radians(d float64) float64 { return d * math.Pi / 180 }

func degrees(r float64) float64 { return r * 180 / math.Pi }
