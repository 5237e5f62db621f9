package bookingRepo

import (
	"time"

	"fixly/models"
)

// BookingRepository defines data access methods for bookings.
//
// UpdateStatusIf is a conditional status transition: the new status is
// written only when the current status is one of the allowed values, in a
// single atomic update. Callers use it to enforce state-machine
// preconditions under concurrent mutation (e.g. a cancel racing an accept).
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByBookingID(bookingID string) (*models.Booking, error)
	ListByUser(userID string) ([]models.Booking, error)
	ListByProvider(providerID string) ([]models.Booking, error)
	ListRecent(limit int64) ([]models.Booking, error)
	CountAll() (int64, error)
	CountByStatus(status string) (int64, error)
	// UpdateStatusIf transitions status atomically and returns the updated
	// booking, or (nil, nil) when the current status is not in allowedFrom.
	UpdateStatusIf(bookingID string, allowedFrom []string, to string) (*models.Booking, error)
	AppendMessage(bookingID string, msg models.Message) (*models.Booking, error)
	UpdateETA(bookingID string, etaMinutes int, etaAt time.Time) (*models.Booking, error)
	// SetPaymentIfUnpaid records payment details only when the booking has
	// not been paid yet. Returns (nil, nil) when it already was.
	SetPaymentIfUnpaid(bookingID, method, txnID string, paidAt time.Time) (*models.Booking, error)
	SetRating(bookingID string, rating int, review string) (*models.Booking, error)
}
