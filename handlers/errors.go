package handlers

import (
	"errors"
	"net/http"

	"fixly/services/booking"
	"fixly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusForCode maps the engine's failure taxonomy onto HTTP statuses.
// ACCESS_DENIED here only covers role gates; ownership denials on bookings
// arrive as NOT_FOUND by design.
func statusForCode(code booking.Code) int {
	switch code {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeAccessDenied:
		return http.StatusForbidden
	case booking.CodeInvalidState, booking.CodeAlreadyDone:
		return http.StatusBadRequest
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeContention:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a typed engine failure, or a generic 500 for anything
// untyped (infrastructure failures are logged, never detailed to clients).
func respondError(c *gin.Context, err error) {
	var be *booking.Error
	if errors.As(err, &be) {
		c.JSON(statusForCode(be.Code), gin.H{"message": be.Message, "code": string(be.Code)})
		return
	}
	utils.GetLogger().Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
}
