package handlers

import (
	"net/http"

	"fixly/middleware"
	"fixly/services/booking"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	Bookings booking.Service
}

func NewAdminHandler(bookings booking.Service) *AdminHandler {
	return &AdminHandler{Bookings: bookings}
}

func (h *AdminHandler) Overview(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	overview, err := h.Bookings.AdminOverview(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err)
		return
	}

	recent := make([]gin.H, 0, len(overview.Recent))
	for i := range overview.Recent {
		b := &overview.Recent[i]
		payload := bookingPayload(b)
		payload["userId"] = b.UserID
		payload["providerId"] = b.ProviderID
		payload["customerName"] = overview.CustomerNames[b.UserID]
		recent = append(recent, payload)
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalBookings":     overview.TotalBookings,
			"activeBookings":    overview.ActiveBookings,
			"pendingBookings":   overview.PendingBookings,
			"completedBookings": overview.CompletedBookings,
			"totalProviders":    overview.TotalProviders,
		},
		"recentBookings": recent,
	})
}
