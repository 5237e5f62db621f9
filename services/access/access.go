// Package access is the single authorization point for booking data. Every
// booking-reading or booking-mutating entry point resolves the caller
// through the guard instead of re-implementing role checks inline.
package access

import (
	"errors"
	"fmt"

	bookingRepo "fixly/database/repository/booking"
	providerRepo "fixly/database/repository/provider"
	"fixly/models"
)

// Identity is the authenticated caller as established by the auth
// middleware. ProviderID is resolved on demand, not carried in the token.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// ErrBookingNotFound covers both a genuinely absent booking and one the
// caller may not see. Collapsing the two avoids leaking booking existence
// to outsiders.
var ErrBookingNotFound = errors.New("booking not found")

// ErrForbidden is returned for role-gated actions the caller's role does
// not permit.
var ErrForbidden = errors.New("access denied")

// ErrNoProviderProfile is returned when a provider-role caller has no
// provider profile on record.
var ErrNoProviderProfile = errors.New("provider profile not found")

// Guard performs role- and ownership-based authorization checks.
type Guard struct {
	Bookings  bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
}

// ResolveBooking loads a booking if and only if the identity may access it:
// admins see everything, customers their own bookings, providers the
// bookings assigned to their provider profile. Everyone else gets
// ErrBookingNotFound.
func (g *Guard) ResolveBooking(bookingID string, ident Identity) (*models.Booking, error) {
	booking, err := g.Bookings.GetByBookingID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if ident.Role == models.RoleAdmin {
		return booking, nil
	}
	if booking.UserID == ident.UserID {
		return booking, nil
	}
	if ident.Role == models.RoleProvider {
		provider, err := g.Providers.GetByUserID(ident.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve provider profile: %w", err)
		}
		if provider != nil && booking.ProviderID == provider.ID {
			return booking, nil
		}
	}

	return nil, ErrBookingNotFound
}

// ProviderProfile returns the provider profile owned by the identity.
// Non-provider roles fail with ErrForbidden; a provider-role caller without
// a profile fails with ErrNoProviderProfile.
func (g *Guard) ProviderProfile(ident Identity) (*models.Provider, error) {
	if ident.Role != models.RoleProvider {
		return nil, ErrForbidden
	}
	provider, err := g.Providers.GetByUserID(ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider profile: %w", err)
	}
	if provider == nil {
		return nil, ErrNoProviderProfile
	}
	return provider, nil
}

// MessageSenderRole decides which side of the conversation the identity is
// on for a booking it already passed ResolveBooking for. Admins write as
// customers, matching how moderation messages read to the provider.
func (g *Guard) MessageSenderRole(booking *models.Booking, ident Identity) (string, error) {
	if booking.UserID == ident.UserID {
		return models.RoleCustomer, nil
	}
	if ident.Role == models.RoleProvider {
		provider, err := g.Providers.GetByUserID(ident.UserID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve provider profile: %w", err)
		}
		if provider != nil && booking.ProviderID == provider.ID {
			return models.RoleProvider, nil
		}
	}
	if ident.Role == models.RoleAdmin {
		return models.RoleCustomer, nil
	}
	return "", ErrForbidden
}
