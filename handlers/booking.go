package handlers

import (
	"net/http"

	"fixly/middleware"
	"fixly/models"
	"fixly/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the customer-facing booking endpoints.
type BookingHandler struct {
	Bookings booking.Service
}

func NewBookingHandler(bookings booking.Service) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

// bookingPayload is the wire shape of a booking shared by every endpoint.
func bookingPayload(b *models.Booking) gin.H {
	return gin.H{
		"bookingId":     b.BookingID,
		"serviceType":   b.ServiceType,
		"status":        b.Status,
		"etaAt":         b.EtaAt,
		"etaMinutes":    b.EtaMinutes,
		"distanceKm":    b.DistanceKm,
		"price":         b.Price,
		"isEmergency":   b.IsEmergency,
		"paymentMethod": b.PaymentMethod,
		"paymentStatus": b.PaymentStatus,
		"paymentTxnId":  b.PaymentTxnID,
		"paidAt":        b.PaidAt,
		"rating":        b.Rating,
		"review":        b.Review,
		"createdAt":     b.CreatedAt,
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	result, err := h.Bookings.Create(c.Request.Context(), ident, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking": bookingPayload(result.Booking),
		"provider": gin.H{
			"id":         result.Provider.ID,
			"name":       result.Provider.Name,
			"rating":     result.Provider.Rating,
			"imageUrl":   result.Provider.ImageURL,
			"distanceKm": result.Booking.DistanceKm,
			"status":     "Awaiting provider acceptance",
		},
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	view, err := h.Bookings.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"booking": bookingPayload(view.Booking)}
	if view.Provider != nil {
		resp["provider"] = gin.H{
			"id":       view.Provider.ID,
			"name":     view.Provider.Name,
			"rating":   view.Provider.Rating,
			"imageUrl": view.Provider.ImageURL,
			"location": view.Provider.Location,
		}
	}
	if view.Customer != nil {
		resp["customer"] = gin.H{
			"id":       view.Customer.ID,
			"name":     view.Customer.Name,
			"phone":    view.Customer.Phone,
			"location": view.Booking.UserLocation,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) History(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	entries, err := h.Bookings.History(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings := make([]gin.H, 0, len(entries))
	for i := range entries {
		payload := bookingPayload(&entries[i].Booking)
		payload["providerName"] = entries[i].ProviderName
		bookings = append(bookings, payload)
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if _, err := h.Bookings.Cancel(c.Request.Context(), ident, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

func (h *BookingHandler) Rate(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	if _, err := h.Bookings.Rate(c.Request.Context(), ident, c.Param("id"), req.Rating, req.Review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thanks for the feedback"})
}

func (h *BookingHandler) Pay(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	// Body is optional; an empty one falls back to the booking's method.
	_ = c.ShouldBindJSON(&req)

	updated, err := h.Bookings.Pay(c.Request.Context(), ident, c.Param("id"), req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Payment successful (test)",
		"paymentStatus": updated.PaymentStatus,
		"paymentTxnId":  updated.PaymentTxnID,
		"paidAt":        updated.PaidAt,
		"paymentMethod": updated.PaymentMethod,
	})
}

func (h *BookingHandler) Messages(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	messages, err := h.Bookings.Messages(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *BookingHandler) SendMessage(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	messages, err := h.Bookings.SendMessage(c.Request.Context(), ident, c.Param("id"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
