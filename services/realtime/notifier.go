package realtime

import (
	"context"
	"fmt"
	"time"

	notificationRepo "fixly/database/repository/notification"
	"fixly/models"
	"fixly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier turns lifecycle events into durable notification records and
// pushed events. The record is written first; the push may be lost without
// losing the event.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
	BookingUpdated(ctx context.Context, booking *models.Booking)
	MessageSent(ctx context.Context, bookingID string, msg models.Message)
}

// DefaultNotifier is the production implementation.
type DefaultNotifier struct {
	Repo notificationRepo.NotificationRepository
	Hub  Hub
}

// Notify persists the notification and pushes it on the recipient's
// channel. Persistence failures are returned; push failures are only
// logged.
func (s *DefaultNotifier) Notify(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := s.Repo.Create(&n); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	event, err := NewEvent(EventNotificationNew, n)
	if err != nil {
		return fmt.Errorf("failed to encode notification event: %w", err)
	}
	if err := s.Hub.Publish(ctx, UserChannel(n.RecipientID), event); err != nil {
		utils.GetLogger().Warn("notifier: push delivery failed",
			zap.String("recipientId", n.RecipientID), zap.Error(err))
	}
	return nil
}

// BookingUpdated pushes the full updated booking to everyone watching it.
func (s *DefaultNotifier) BookingUpdated(ctx context.Context, booking *models.Booking) {
	event, err := NewEvent(EventBookingUpdate, booking)
	if err != nil {
		utils.GetLogger().Warn("notifier: failed to encode booking update", zap.Error(err))
		return
	}
	if err := s.Hub.Publish(ctx, BookingChannel(booking.BookingID), event); err != nil {
		utils.GetLogger().Warn("notifier: push delivery failed",
			zap.String("bookingId", booking.BookingID), zap.Error(err))
	}
}

// MessageSent pushes a chat message to everyone watching the booking.
func (s *DefaultNotifier) MessageSent(ctx context.Context, bookingID string, msg models.Message) {
	payload := struct {
		models.Message
		BookingID string `json:"bookingId"`
	}{Message: msg, BookingID: bookingID}

	event, err := NewEvent(EventMessage, payload)
	if err != nil {
		utils.GetLogger().Warn("notifier: failed to encode message event", zap.Error(err))
		return
	}
	if err := s.Hub.Publish(ctx, BookingChannel(bookingID), event); err != nil {
		utils.GetLogger().Warn("notifier: push delivery failed",
			zap.String("bookingId", bookingID), zap.Error(err))
	}
}
