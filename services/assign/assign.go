// Package assign implements the assignment engine: binding exactly one
// available provider to a new booking under the availability mutex.
package assign

import (
	"fmt"
	"sort"

	providerRepo "fixly/database/repository/provider"
	"fixly/models"
	"fixly/services/catalog"
	"fixly/services/geo"
	"fixly/utils"

	"go.uber.org/zap"
)

// Request describes what the customer needs and where.
type Request struct {
	ServiceType         string
	Location            models.Location
	PreferredProviderID string
}

// Assignment is a successfully locked provider plus the dispatch distance.
type Assignment struct {
	Provider   *models.Provider
	DistanceKm float64
}

// Engine finds and locks exactly one available provider for a request.
type Engine interface {
	Assign(req Request) (*Assignment, error)
}

// DefaultEngine is the production implementation.
type DefaultEngine struct {
	Providers providerRepo.ProviderRepository
	Catalog   *catalog.Catalog
}

// Assign tries the preferred provider first (falling back silently when the
// lock fails for any reason), then walks the available candidates nearest
// first, attempting an atomic lock on each until one succeeds. At most one
// provider ends up locked per call; a failed call locks nobody.
func (e *DefaultEngine) Assign(req Request) (*Assignment, error) {
	logger := utils.GetLogger()
	serviceTypes := e.Catalog.ResolveServiceTypes(req.ServiceType)

	if req.PreferredProviderID != "" {
		locked, err := e.Providers.LockIfAvailable(req.PreferredProviderID, serviceTypes)
		if err != nil {
			return nil, fmt.Errorf("preferred provider lock failed: %w", err)
		}
		if locked != nil {
			return &Assignment{
				Provider:   locked,
				DistanceKm: geo.RoundKm(geo.DistanceKm(req.Location, locked.Location)),
			}, nil
		}
		// Not an error for the caller: fall through to auto-assignment.
		logger.Debug("preferred provider unavailable, falling back to auto-assign",
			zap.String("providerId", req.PreferredProviderID))
	}

	candidates, err := e.Providers.FindAvailable(serviceTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch available providers: %w", err)
	}
	if len(candidates) == 0 {
		return nil, &NoProviderError{}
	}

	type ranked struct {
		provider models.Provider
		distance float64
	}
	pool := make([]ranked, 0, len(candidates))
	for _, p := range candidates {
		pool = append(pool, ranked{provider: p, distance: geo.DistanceKm(req.Location, p.Location)})
	}
	// Stable keeps retrieval order for equal distances.
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].distance < pool[j].distance
	})

	// The snapshot above can go stale between read and lock: a candidate may
	// be taken by a concurrent request. Trying each in order closes that
	// window, since the lock itself is the authority.
	for _, candidate := range pool {
		locked, err := e.Providers.LockIfAvailable(candidate.provider.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("provider lock failed: %w", err)
		}
		if locked != nil {
			return &Assignment{
				Provider:   locked,
				DistanceKm: geo.RoundKm(candidate.distance),
			}, nil
		}
	}

	return nil, &NoProviderError{Contended: true}
}
