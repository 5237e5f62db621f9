package notificationRepo

import "fixly/models"

// NotificationRepository defines data access methods for notifications.
// Notifications are append-only; only the read flag ever changes.
type NotificationRepository interface {
	Create(n *models.Notification) error
	// ListByRecipient returns up to limit notifications for a user, newest first.
	ListByRecipient(userID string, limit int64) ([]models.Notification, error)
	CountUnread(userID string) (int64, error)
	// MarkRead flips read to true for a notification owned by the given
	// recipient. Returns false when no such notification exists.
	MarkRead(id, recipientID string) (bool, error)
}
