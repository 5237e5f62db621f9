package handlers

import (
	"net/http"
	"strings"

	"fixly/middleware"
	"fixly/services/booking"

	"github.com/gin-gonic/gin"
)

// ProviderHandler serves the provider-facing work queue endpoints.
type ProviderHandler struct {
	Bookings booking.Service
}

func NewProviderHandler(bookings booking.Service) *ProviderHandler {
	return &ProviderHandler{Bookings: bookings}
}

func (h *ProviderHandler) Assignments(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	view, err := h.Bookings.Assignments(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings := make([]gin.H, 0, len(view.Entries))
	for i := range view.Entries {
		entry := &view.Entries[i]
		payload := bookingPayload(&entry.Booking)
		payload["userLocation"] = entry.Booking.UserLocation
		if entry.Customer != nil {
			payload["customer"] = gin.H{
				"id":    entry.Customer.ID,
				"name":  entry.Customer.Name,
				"phone": entry.Customer.Phone,
			}
		}
		bookings = append(bookings, payload)
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": gin.H{
			"id":           view.Provider.ID,
			"name":         view.Provider.Name,
			"serviceType":  view.Provider.ServiceType,
			"rating":       view.Provider.Rating,
			"availability": view.Provider.Availability,
		},
		"bookings": bookings,
	})
}

// Respond handles a provider decision on an assigned booking. The action
// selects the transition: ACCEPT, REJECT, or UPDATE with a new ETA and/or
// a progress note.
func (h *ProviderHandler) Respond(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Action     string `json:"action"`
		Note       string `json:"note"`
		EtaMinutes int    `json:"etaMinutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	bookingID := c.Param("id")
	ctx := c.Request.Context()

	switch strings.ToUpper(req.Action) {
	case "ACCEPT":
		updated, err := h.Bookings.Accept(ctx, ident, bookingID, req.Note)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking accepted", "booking": bookingPayload(updated)})
	case "REJECT":
		updated, err := h.Bookings.Reject(ctx, ident, bookingID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking rejected", "booking": bookingPayload(updated)})
	case "UPDATE":
		updated, err := h.Bookings.UpdateProgress(ctx, ident, bookingID, req.EtaMinutes, req.Note)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking updated", "booking": bookingPayload(updated)})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "action must be ACCEPT, REJECT or UPDATE"})
	}
}

func (h *ProviderHandler) SetAvailability(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Available *bool `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "available is required"})
		return
	}

	provider, err := h.Bookings.SetAvailability(c.Request.Context(), ident, *req.Available)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Availability updated",
		"availability": provider.Availability,
	})
}
