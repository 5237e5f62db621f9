package models

import "time"

// Provider is a service-offering profile. Availability doubles as the
// assignment mutex: true means the provider can be booked, false means they
// are engaged in a non-terminal booking (or have gone offline manually).
// The flag is flipped false atomically by the assignment engine and back to
// true when the booking reaches a terminal state.
type Provider struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"userId,omitempty" json:"userId,omitempty"` // empty for seeded demo providers
	Name         string    `bson:"name" json:"name"`
	ServiceType  string    `bson:"serviceType" json:"serviceType"`
	Rating       float64   `bson:"rating" json:"rating"`
	Availability bool      `bson:"availability" json:"availability"`
	Location     Location  `bson:"location" json:"location"`
	ImageURL     string    `bson:"imageUrl" json:"imageUrl"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
