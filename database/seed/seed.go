// Package seed loads the demo provider fleet so a fresh install has
// someone to dispatch. It only ever appends: existing providers are never
// touched.
package seed

import (
	"fmt"
	"time"

	providerRepo "fixly/database/repository/provider"
	"fixly/models"
	"fixly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Providers inserts the demo providers that are not present yet (matched by
// name). Returns the number of providers added.
func Providers(repo providerRepo.ProviderRepository) (int, error) {
	logger := utils.GetLogger()

	count, err := repo.CountAll()
	if err != nil {
		return 0, fmt.Errorf("seed: failed to count providers: %w", err)
	}

	var fresh []models.Provider
	if count == 0 {
		fresh = demoProviders()
	} else {
		existing, err := repo.DistinctNames()
		if err != nil {
			return 0, fmt.Errorf("seed: failed to list provider names: %w", err)
		}
		known := make(map[string]bool, len(existing))
		for _, name := range existing {
			known[name] = true
		}
		for _, p := range demoProviders() {
			if !known[p.Name] {
				fresh = append(fresh, p)
			}
		}
	}

	if len(fresh) == 0 {
		logger.Info("seed: all demo providers already present", zap.Int64("total", count))
		return 0, nil
	}

	if err := repo.CreateMany(fresh); err != nil {
		return 0, fmt.Errorf("seed: failed to insert providers: %w", err)
	}
	logger.Info("seed: inserted demo providers", zap.Int("added", len(fresh)))
	return len(fresh), nil
}

type demoEntry struct {
	name        string
	serviceType string
	rating      float64
	available   bool
	lat, lon    float64
	image       string
}

func demoProviders() []models.Provider {
	now := time.Now().UTC()
	providers := make([]models.Provider, 0, len(demoFleet))
	for _, e := range demoFleet {
		providers = append(providers, models.Provider{
			ID:           uuid.New().String(),
			Name:         e.name,
			ServiceType:  e.serviceType,
			Rating:       e.rating,
			Availability: e.available,
			Location:     models.Location{Latitude: e.lat, Longitude: e.lon},
			ImageURL:     e.image,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return providers
}

// Demo fleet around Delhi (Connaught Place) and Phagwara (LPU campus).
var demoFleet = []demoEntry{
	{"Asha Verma", "Cooking", 4.9, true, 28.6139, 77.209, "https://placehold.co/120x120?text=AV"},
	{"Ravi Kumar", "Cooking", 4.7, true, 28.612, 77.215, "https://placehold.co/120x120?text=RK"},
	{"Neha Singh", "Cooking", 4.6, true, 28.62, 77.202, "https://placehold.co/120x120?text=NS"},
	{"Arjun Mehta", "Plumber", 4.8, true, 28.61, 77.225, "https://placehold.co/120x120?text=AM"},
	{"Karan Das", "Plumber", 4.5, true, 28.608, 77.219, "https://placehold.co/120x120?text=KD"},
	{"Sonal Kapoor", "Plumber", 4.7, true, 28.623, 77.212, "https://placehold.co/120x120?text=SK"},
	{"Imran Ali", "Electrician", 4.8, true, 28.615, 77.2, "https://placehold.co/120x120?text=IA"},
	{"Priya Nair", "Electrician", 4.6, true, 28.609, 77.208, "https://placehold.co/120x120?text=PN"},
	{"Rohit Sharma", "Electrician", 4.7, true, 28.618, 77.214, "https://placehold.co/120x120?text=RS"},
	{"Meera Joshi", "Cooking", 4.9, true, 28.616, 77.205, "https://placehold.co/120x120?text=MJ"},
	{"Vikram Patel", "Misc", 4.8, true, 28.614, 77.203, "https://placehold.co/120x120?text=VP"},
	{"Anita Roy", "Misc", 4.7, true, 28.621, 77.219, "https://placehold.co/120x120?text=AR"},
	{"Nikhil Jain", "Plumber", 4.8, true, 28.617, 77.213, "https://placehold.co/120x120?text=NJ"},
	{"Lata Menon", "Cooking", 4.5, true, 28.606, 77.201, "https://placehold.co/120x120?text=LM"},
	{"Yash Arora", "Electrician", 4.5, true, 28.609, 77.204, "https://placehold.co/120x120?text=YA"},
	{"Gurpreet Singh", "Cleaning", 4.9, true, 31.252, 75.705, "https://placehold.co/120x120?text=GS"},
	{"Simran Kaur", "Cleaning", 4.8, true, 31.253, 75.7045, "https://placehold.co/120x120?text=SK"},
	{"Harleen Gill", "Cleaning", 4.5, false, 31.2505, 75.707, "https://placehold.co/120x120?text=HG"},
	{"Jaswinder Singh", "Plumbing", 4.9, true, 31.2525, 75.7055, "https://placehold.co/120x120?text=JS"},
	{"Kulwinder Kumar", "Plumbing", 4.8, true, 31.2515, 75.704, "https://placehold.co/120x120?text=KK"},
	{"Amarjeet Grewal", "Plumbing", 4.5, false, 31.25, 75.7075, "https://placehold.co/120x120?text=AG"},
	{"Harpreet Virk", "Electric", 4.9, true, 31.2518, 75.7052, "https://placehold.co/120x120?text=HV"},
	{"Sukhwinder Randhawa", "Electric", 4.8, true, 31.2528, 75.7042, "https://placehold.co/120x120?text=SR"},
	{"Navjot Bajwa", "Electric", 4.7, true, 31.2512, 75.7062, "https://placehold.co/120x120?text=NB"},
	{"Tejinder Sidhu", "Repair", 4.6, true, 31.2545, 75.7048, "https://placehold.co/120x120?text=TS"},
	{"Manpreet Brar", "Painting", 4.6, true, 31.254, 75.7035, "https://placehold.co/120x120?text=MB"},
	{"Rajveer Dhillon", "Shifting", 4.7, true, 31.251, 75.706, "https://placehold.co/120x120?text=RD"},
}
