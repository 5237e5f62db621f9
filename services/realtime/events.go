// Package realtime fans lifecycle events out to per-user and per-booking
// channels. Delivery is best-effort and at-most-once: the durable truth is
// always the booking or notification record, a push is only a hint to
// refresh.
package realtime

import "encoding/json"

// Outbound event kinds. Each carries the full updated payload, not a diff,
// so subscribers replace local state wholesale.
const (
	EventMessage         = "message"
	EventBookingUpdate   = "booking:update"
	EventNotificationNew = "notification:new"
	EventError           = "error"
)

// Event is one pushed item on a channel.
type Event struct {
	Kind string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// NewEvent marshals a payload into an event. Marshal failures are
// programming errors and reported to the caller.
func NewEvent(kind string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Data: data}, nil
}

// UserChannel names the per-recipient channel (notification bell/badge).
func UserChannel(userID string) string {
	return "user:" + userID
}

// BookingChannel names the per-booking channel (chat and timeline).
func BookingChannel(bookingID string) string {
	return "booking:" + bookingID
}
