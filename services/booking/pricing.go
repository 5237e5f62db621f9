package booking

import (
	"math"

	"fixly/services/catalog"
)

// EmergencyMultiplier is applied to the base price of emergency bookings.
const EmergencyMultiplier = 1.5

// QuotePrice prices a booking at creation: the catalog base price for the
// service type, multiplied for emergencies and rounded to the nearest
// integer.
func QuotePrice(cat *catalog.Catalog, serviceType string, isEmergency bool) int {
	base := cat.BasePrice(serviceType)
	if !isEmergency {
		return base
	}
	return int(math.Round(float64(base) * EmergencyMultiplier))
}
