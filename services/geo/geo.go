// Package geo provides the distance and arrival-time estimates used when
// dispatching a provider to a customer. Everything here is pure.
package geo

import (
	"math"
	"time"

	"fixly/models"
)

const (
	// EmergencyFloorMinutes is the fixed quote for emergency bookings.
	// Emergency dispatches always quote the floor, whatever the distance.
	EmergencyFloorMinutes = 5
	// StandardFloorMinutes is the minimum quote for standard bookings.
	StandardFloorMinutes = 15
	// DefaultAvgSpeedKmh is assumed when the configured speed is missing
	// or nonsensical.
	DefaultAvgSpeedKmh = 30
)

// ETA is an arrival estimate: a duration in minutes plus the absolute
// target timestamp.
type ETA struct {
	Minutes int
	At      time.Time
}

// DistanceKm calculates the great-circle distance (in km) between two
// lat/lon points using the haversine formula.
func DistanceKm(a, b models.Location) float64 {
	const R = 6371
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	lat1Rad := a.Latitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// ComputeETA estimates arrival from a travel distance. Standard bookings
// quote at least StandardFloorMinutes with no upper cap; emergency bookings
// always quote exactly EmergencyFloorMinutes.
func ComputeETA(distanceKm float64, isEmergency bool, avgSpeedKmh float64) ETA {
	if isEmergency {
		return etaFrom(EmergencyFloorMinutes)
	}
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = DefaultAvgSpeedKmh
	}
	minutes := int(math.Ceil(distanceKm / avgSpeedKmh * 60))
	if minutes < StandardFloorMinutes {
		minutes = StandardFloorMinutes
	}
	return etaFrom(minutes)
}

func etaFrom(minutes int) ETA {
	return ETA{
		Minutes: minutes,
		At:      time.Now().Add(time.Duration(minutes) * time.Minute),
	}
}

// RoundKm rounds a distance to two decimals for reporting.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
