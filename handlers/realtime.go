package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fixly/middleware"
	"fixly/services/access"
	"fixly/services/realtime"
	"fixly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RealtimeHandler streams live events over server-sent events. Each stream
// subscribes the authenticated caller to one hub channel and relays events
// until the client disconnects.
type RealtimeHandler struct {
	Hub   realtime.Hub
	Guard *access.Guard
}

func NewRealtimeHandler(hub realtime.Hub, guard *access.Guard) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub, Guard: guard}
}

// UserStream streams events addressed to the authenticated user, such as
// new notifications.
func (h *RealtimeHandler) UserStream(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	h.stream(c, realtime.UserChannel(ident.UserID))
}

// BookingStream streams events for one booking: chat messages and status
// updates. Access follows the same rule as reading the booking; callers the
// booking is hidden from receive an error event and the stream closes.
func (h *RealtimeHandler) BookingStream(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	bookingID := c.Param("id")
	if _, err := h.Guard.ResolveBooking(bookingID, ident); err != nil {
		if errors.Is(err, access.ErrBookingNotFound) {
			c.Header("Content-Type", "text/event-stream")
			c.SSEvent(realtime.EventError, gin.H{"message": "Booking not found"})
			return
		}
		respondError(c, err)
		return
	}

	h.stream(c, realtime.BookingChannel(bookingID))
}

func (h *RealtimeHandler) stream(c *gin.Context, channel string) {
	ctx := c.Request.Context()
	sub, err := h.Hub.Subscribe(ctx, channel)
	if err != nil {
		utils.GetLogger().Error("failed to open realtime stream",
			zap.String("channel", channel), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-sub.Events():
			if !open {
				return false
			}
			c.SSEvent(event.Kind, json.RawMessage(event.Data))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
