// Package catalog holds the static service configuration: the public
// service list, the base price table and the service-type alias table. The
// catalog is built once at startup and never mutated afterwards; everything
// hands out copies.
package catalog

import "fixly/models"

// DefaultBasePrice is quoted for service types missing from the price table.
const DefaultBasePrice = 299

// FallbackLocation is used when a request carries no coordinates.
var FallbackLocation = models.Location{Latitude: 28.6139, Longitude: 77.209}

// Service is a bookable service as shown to customers.
type Service struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	StartingPrice int    `json:"startingPrice"`
}

// Catalog is the immutable service configuration.
type Catalog struct {
	services   []Service
	aliases    map[string][]string
	basePrices map[string]int
}

// Default builds the stock catalog.
func Default() *Catalog {
	return &Catalog{
		services: []Service{
			{ID: "cooking", Name: "Cooking", Icon: "🍲", StartingPrice: 249},
			{ID: "cleaning", Name: "Cleaning", Icon: "🧹", StartingPrice: 249},
			{ID: "repair", Name: "Repair", Icon: "🔧", StartingPrice: 399},
			{ID: "painting", Name: "Painting", Icon: "🎨", StartingPrice: 349},
			{ID: "shifting", Name: "Shifting", Icon: "📦", StartingPrice: 499},
			{ID: "plumbing", Name: "Plumbing", Icon: "🚰", StartingPrice: 349},
			{ID: "electric", Name: "Electric", Icon: "💡", StartingPrice: 399},
		},
		aliases: map[string][]string{
			"Electric":    {"Electric", "Electrician"},
			"Electrician": {"Electric", "Electrician"},
			"Plumbing":    {"Plumbing", "Plumber"},
			"Plumber":     {"Plumbing", "Plumber"},
			"Repair":      {"Repair"},
			"Cleaning":    {"Cleaning"},
			"Painting":    {"Painting"},
			"Shifting":    {"Shifting"},
			"Cooking":     {"Cooking"},
			"Misc":        {"Misc"},
		},
		basePrices: map[string]int{
			"Electrician": 399,
			"Electric":    399,
			"Cooking":     249,
			"Plumber":     349,
			"Plumbing":    349,
			"Misc":        299,
			"Cleaning":    249,
			"Repair":      399,
			"Painting":    349,
			"Shifting":    499,
		},
	}
}

// Services returns the public service list.
func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// ResolveServiceTypes expands a display label into all labels naming the
// same candidate pool ("Electric" and "Electrician" are the same trade).
// Unknown labels map to themselves.
func (c *Catalog) ResolveServiceTypes(serviceType string) []string {
	if types, ok := c.aliases[serviceType]; ok {
		out := make([]string, len(types))
		copy(out, types)
		return out
	}
	return []string{serviceType}
}

// BasePrice returns the base price for a service type, or DefaultBasePrice
// when the type is unknown.
func (c *Catalog) BasePrice(serviceType string) int {
	if price, ok := c.basePrices[serviceType]; ok {
		return price
	}
	return DefaultBasePrice
}
