package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geographic represents a position in geographic coordinates
type Geographic struct {
	Lat float64 // Latitude in radians [-π/2, π/2], positive = north
	Lon float64 // Longitude in radians [-π, π], positive = east
	Alt float64 // Altitude above reference radius
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RadiansToDegrees converts radians to degrees
func RadiansToDegrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// GeographicToCartesian converts geographic coordinates to a Y-up position.
// X points to 0° longitude at the equator, Z to 90° east.
func GeographicToCartesian(g Geographic, radius float64) mgl64.Vec3 {
	r := radius + g.Alt
	cosLat := math.Cos(g.Lat)

	return mgl64.Vec3{
		r * cosLat * math.Cos(g.Lon),
		r * math.Sin(g.Lat),
		r * cosLat * math.Sin(g.Lon),
	}
}

// CartesianToGeographic converts a Y-up position to geographic coordinates
func CartesianToGeographic(c mgl64.Vec3, radius float64) Geographic {
	r := c.Len()

	// Handle special case of origin
	if r < 1e-10 {
		return Geographic{Lat: 0, Lon: 0, Alt: -radius}
	}

	return Geographic{
		Lat: math.Asin(c.Y() / r),
		Lon: math.Atan2(c.Z(), c.X()),
		Alt: r - radius,
	}
}

// AngularDistance returns the great-circle angle in radians between two
// geographic positions.
func AngularDistance(a, b Geographic) float64 {
	// Haversine formula
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat)*math.Cos(b.Lat)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// NormalizeCoordinates ensures coordinates are within valid ranges
func NormalizeCoordinates(g Geographic) Geographic {
	// Clamp latitude
	if g.Lat > math.Pi/2 {
		g.Lat = math.Pi / 2
	} else if g.Lat < -math.Pi/2 {
		g.Lat = -math.Pi / 2
	}

	// Wrap longitude
	for g.Lon > math.Pi {
		g.Lon -= 2 * math.Pi
	}
	for g.Lon < -math.Pi {
		g.Lon += 2 * math.Pi
	}

	return g
}
