package handlers

import (
	"errors"
	"net/http"

	"fixly/middleware"
	"fixly/services/realtime"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the notification bell endpoints.
type NotificationHandler struct {
	Feed *realtime.Feed
}

func NewNotificationHandler(feed *realtime.Feed) *NotificationHandler {
	return &NotificationHandler{Feed: feed}
}

func (h *NotificationHandler) List(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	page, err := h.Feed.List(c.Request.Context(), ident.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	err := h.Feed.MarkRead(c.Request.Context(), ident.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, realtime.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}
