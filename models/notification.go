package models

import "time"

// Notification types emitted by the fan-out layer.
const (
	NotifBookingCreated   = "BOOKING_CREATED"
	NotifBookingAssigned  = "BOOKING_ASSIGNED"
	NotifBookingAccepted  = "BOOKING_ACCEPTED"
	NotifBookingRejected  = "BOOKING_REJECTED"
	NotifBookingUpdated   = "BOOKING_UPDATED"
	NotifBookingCancelled = "BOOKING_CANCELLED"
	NotifNewMessage       = "NEW_MESSAGE"
	NotifPaymentUpdate    = "PAYMENT_UPDATE"
)

// Client-side action hints.
const (
	ActionRespondBooking = "RESPOND_BOOKING"
	ActionRebook         = "REBOOK"
)

// Notification is the durable record behind every pushed event. Only the
// read flag ever mutates after creation.
type Notification struct {
	ID          string    `bson:"id" json:"id"`
	RecipientID string    `bson:"recipientId" json:"recipientId"`
	BookingID   string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Type        string    `bson:"type" json:"type"`
	Title       string    `bson:"title" json:"title"`
	Message     string    `bson:"message" json:"message"`
	ActionType  string    `bson:"actionType,omitempty" json:"actionType,omitempty"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
