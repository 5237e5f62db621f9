package booking

import (
	"context"

	"fixly/models"
	"fixly/services/access"
)

// CreateRequest is a customer's booking request.
type CreateRequest struct {
	ServiceType         string           `json:"serviceType"`
	Location            *models.Location `json:"userLocation"`
	IsEmergency         bool             `json:"isEmergency"`
	PaymentMethod       string           `json:"paymentMethod"`
	PreferredProviderID string           `json:"preferredProviderId"`
}

// CreateResult is a freshly created booking plus the locked provider.
type CreateResult struct {
	Booking  *models.Booking
	Provider *models.Provider
}

// View is a booking together with the referenced parties, shaped by the
// access rule the caller passed.
type View struct {
	Booking  *models.Booking
	Provider *models.Provider
	Customer *models.User
}

// HistoryEntry is one row of a customer's booking history.
type HistoryEntry struct {
	Booking      models.Booking
	ProviderName string
}

// AssignmentEntry is one row of a provider's work list.
type AssignmentEntry struct {
	Booking  models.Booking
	Customer *models.User
}

// AssignmentsView is a provider's profile plus their bookings, newest first.
type AssignmentsView struct {
	Provider *models.Provider
	Entries  []AssignmentEntry
}

// Overview is the admin dashboard snapshot.
type Overview struct {
	TotalBookings     int64
	ActiveBookings    int64
	PendingBookings   int64
	CompletedBookings int64
	TotalProviders    int64
	Recent            []models.Booking
	CustomerNames     map[string]string // keyed by user id, for the recent list
}

// Service owns the booking lifecycle: it applies state transitions,
// validates the acting party for each one, and emits the corresponding
// notifications and pushes.
type Service interface {
	Create(ctx context.Context, ident access.Identity, req CreateRequest) (*CreateResult, error)
	Get(ctx context.Context, ident access.Identity, bookingID string) (*View, error)
	History(ctx context.Context, ident access.Identity) ([]HistoryEntry, error)

	Accept(ctx context.Context, ident access.Identity, bookingID, note string) (*models.Booking, error)
	Reject(ctx context.Context, ident access.Identity, bookingID string) (*models.Booking, error)
	UpdateProgress(ctx context.Context, ident access.Identity, bookingID string, etaMinutes int, note string) (*models.Booking, error)

	Cancel(ctx context.Context, ident access.Identity, bookingID string) (*models.Booking, error)
	Rate(ctx context.Context, ident access.Identity, bookingID string, rating int, review string) (*models.Booking, error)
	Pay(ctx context.Context, ident access.Identity, bookingID, method string) (*models.Booking, error)

	SendMessage(ctx context.Context, ident access.Identity, bookingID, text string) ([]models.Message, error)
	Messages(ctx context.Context, ident access.Identity, bookingID string) ([]models.Message, error)

	Assignments(ctx context.Context, ident access.Identity) (*AssignmentsView, error)
	SetAvailability(ctx context.Context, ident access.Identity, available bool) (*models.Provider, error)

	AdminOverview(ctx context.Context, ident access.Identity) (*Overview, error)
}
