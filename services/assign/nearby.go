package assign

import (
	"fmt"
	"sort"

	"fixly/models"
	"fixly/services/geo"
)

// nearbyLimit caps how many candidates a browse returns.
const nearbyLimit = 10

// Candidate is an available provider ranked for a prospective booking.
type Candidate struct {
	Provider   models.Provider `json:"provider"`
	DistanceKm float64         `json:"distanceKm"`
	EtaMinutes int             `json:"etaMinutes"`
}

// Nearby lists available providers for a service type ordered by ascending
// distance, quoting the standard (non-emergency) ETA for each. This is a
// read-only snapshot for browsing; nothing is locked.
func (e *DefaultEngine) Nearby(serviceType string, location models.Location, avgSpeedKmh float64) ([]Candidate, error) {
	serviceTypes := e.Catalog.ResolveServiceTypes(serviceType)
	providers, err := e.Providers.FindAvailable(serviceTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch available providers: %w", err)
	}
	if len(providers) == 0 {
		return nil, &NoProviderError{}
	}

	candidates := make([]Candidate, 0, len(providers))
	for _, p := range providers {
		distance := geo.DistanceKm(location, p.Location)
		eta := geo.ComputeETA(distance, false, avgSpeedKmh)
		candidates = append(candidates, Candidate{
			Provider:   p,
			DistanceKm: geo.RoundKm(distance),
			EtaMinutes: eta.Minutes,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	if len(candidates) > nearbyLimit {
		candidates = candidates[:nearbyLimit]
	}
	return candidates, nil
}
