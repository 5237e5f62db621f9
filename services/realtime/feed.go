package realtime

import (
	"context"
	"fmt"

	notificationRepo "fixly/database/repository/notification"
	"fixly/models"
)

// feedLimit caps how many notifications the bell feed returns.
const feedLimit = 50

// FeedPage is the notification bell payload: recent items plus the badge
// count.
type FeedPage struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

// ErrNotificationNotFound is returned when a read receipt names a
// notification the recipient does not own.
var ErrNotificationNotFound = fmt.Errorf("notification not found")

// Feed serves a user's notification list and read receipts.
type Feed struct {
	Repo notificationRepo.NotificationRepository
}

// List returns the newest notifications for a user plus the unread count.
func (f *Feed) List(ctx context.Context, userID string) (*FeedPage, error) {
	notifications, err := f.Repo.ListByRecipient(userID, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	unread, err := f.Repo.CountUnread(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return &FeedPage{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead acknowledges one notification for its recipient.
func (f *Feed) MarkRead(ctx context.Context, userID, notificationID string) error {
	ok, err := f.Repo.MarkRead(notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
