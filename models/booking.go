package models

import "time"

// Booking lifecycle states. PENDING and ACTIVE are the only non-terminal
// states; REJECTED, CANCELLED and COMPLETED accept no further transitions.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Payment states.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
)

// Message is a chat entry embedded in its booking. Messages are append-only
// and ordered chronologically by insertion.
type Message struct {
	SenderRole string    `bson:"senderRole" json:"senderRole"`
	SenderID   string    `bson:"senderId" json:"senderId"`
	SenderName string    `bson:"senderName" json:"senderName"`
	Text       string    `bson:"text" json:"text"`
	SentAt     time.Time `bson:"sentAt" json:"sentAt"`
}

// Booking is the central aggregate. It owns its embedded messages and holds
// weak references (by id) to the customer and the assigned provider.
type Booking struct {
	BookingID     string     `bson:"bookingId" json:"bookingId"`
	UserID        string     `bson:"userId" json:"userId"`
	ProviderID    string     `bson:"providerId" json:"providerId"`
	ServiceType   string     `bson:"serviceType" json:"serviceType"`
	Status        string     `bson:"status" json:"status"`
	EtaAt         time.Time  `bson:"etaAt" json:"etaAt"`
	EtaMinutes    int        `bson:"etaMinutes" json:"etaMinutes"`
	DistanceKm    float64    `bson:"distanceKm" json:"distanceKm"`
	Price         int        `bson:"price" json:"price"`
	UserLocation  Location   `bson:"userLocation" json:"userLocation"`
	IsEmergency   bool       `bson:"isEmergency" json:"isEmergency"`
	PaymentMethod string     `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string     `bson:"paymentStatus" json:"paymentStatus"`
	PaymentTxnID  string     `bson:"paymentTxnId,omitempty" json:"paymentTxnId,omitempty"`
	PaidAt        *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	Messages      []Message  `bson:"messages" json:"messages"`
	Rating        int        `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5, zero when unrated
	Review        string     `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Terminal reports whether no further status transition is legal.
func (b *Booking) Terminal() bool {
	switch b.Status {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}
