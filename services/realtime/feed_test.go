package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"fixly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memNotifications is an in-memory NotificationRepository.
type memNotifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func (r *memNotifications) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *n)
	return nil
}

func (r *memNotifications) ListByRecipient(userID string, limit int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for i := len(r.items) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.items[i].RecipientID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *memNotifications) CountUnread(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.RecipientID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *memNotifications) MarkRead(id, recipientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].RecipientID == recipientID {
			r.items[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func TestNotifierPersistsAndPushes(t *testing.T) {
	hub := newTestHub(t)
	repo := &memNotifications{}
	notifier := &DefaultNotifier{Repo: repo, Hub: hub}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub, err := hub.Subscribe(ctx, UserChannel("u-1"))
	require.NoError(t, err)
	defer sub.Close()

	err = notifier.Notify(ctx, models.Notification{
		RecipientID: "u-1",
		Type:        models.NotifBookingCreated,
		Title:       "Booking created",
	})
	require.NoError(t, err)

	// Durable record with generated id and timestamp.
	page, err := (&Feed{Repo: repo}).List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.NotEmpty(t, page.Notifications[0].ID)
	assert.False(t, page.Notifications[0].CreatedAt.IsZero())
	assert.Equal(t, int64(1), page.UnreadCount)

	// Matching push on the user channel.
	select {
	case event := <-sub.Events():
		assert.Equal(t, EventNotificationNew, event.Kind)
		var pushed models.Notification
		require.NoError(t, json.Unmarshal(event.Data, &pushed))
		assert.Equal(t, page.Notifications[0].ID, pushed.ID)
	case <-ctx.Done():
		t.Fatal("timed out waiting for push")
	}
}

func TestFeedMarkRead(t *testing.T) {
	repo := &memNotifications{}
	feed := &Feed{Repo: repo}
	ctx := context.Background()

	require.NoError(t, repo.Create(&models.Notification{ID: "n-1", RecipientID: "u-1"}))

	require.NoError(t, feed.MarkRead(ctx, "u-1", "n-1"))
	page, err := feed.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.UnreadCount)
	assert.True(t, page.Notifications[0].Read)
}

func TestFeedMarkReadWrongRecipient(t *testing.T) {
	repo := &memNotifications{}
	feed := &Feed{Repo: repo}
	ctx := context.Background()

	require.NoError(t, repo.Create(&models.Notification{ID: "n-1", RecipientID: "u-1"}))

	err := feed.MarkRead(ctx, "u-2", "n-1")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestFeedListEmpty(t *testing.T) {
	feed := &Feed{Repo: &memNotifications{}}
	page, err := feed.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, page.Notifications)
	assert.Empty(t, page.Notifications)
	assert.Equal(t, int64(0), page.UnreadCount)
}
