package providerRepo

import "fixly/models"

// ProviderRepository defines data access methods for providers.
//
// LockIfAvailable is the concurrency linchpin of assignment: it must be a
// single atomic conditional update (availability true -> false), never a
// read-then-write pair. A caller that loses the race gets (nil, nil) and no
// mutation happens.
type ProviderRepository interface {
	Create(provider *models.Provider) error
	CreateMany(providers []models.Provider) error
	GetByID(id string) (*models.Provider, error)
	GetByUserID(userID string) (*models.Provider, error)
	// FindAvailable returns available providers whose service type is one of
	// the given labels, in insertion order.
	FindAvailable(serviceTypes []string) ([]models.Provider, error)
	// LockIfAvailable atomically flips availability true -> false and returns
	// the updated provider. When serviceTypes is non-empty the provider must
	// also match one of the labels. Returns (nil, nil) when the precondition
	// did not hold (already locked, absent, or wrong service type).
	LockIfAvailable(id string, serviceTypes []string) (*models.Provider, error)
	// Release unconditionally sets availability back to true.
	Release(id string) error
	// SetAvailability is the provider's manual online/offline toggle.
	SetAvailability(id string, available bool) (*models.Provider, error)
	CountAll() (int64, error)
	DistinctNames() ([]string, error)
}
