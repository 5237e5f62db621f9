package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"fixly/models"
)

// memProviders is an in-memory ProviderRepository with the same
// compare-and-swap locking contract as the Mongo implementation.
type memProviders struct {
	mu        sync.Mutex
	providers map[string]*models.Provider
	order     []string
}

func newMemProviders(providers ...models.Provider) *memProviders {
	repo := &memProviders{providers: make(map[string]*models.Provider)}
	for i := range providers {
		p := providers[i]
		repo.providers[p.ID] = &p
		repo.order = append(repo.order, p.ID)
	}
	return repo
}

func (r *memProviders) Create(provider *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *provider
	r.providers[p.ID] = &p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *memProviders) CreateMany(providers []models.Provider) error {
	for i := range providers {
		if err := r.Create(&providers[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memProviders) GetByID(id string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProviders) GetByUserID(userID string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if p := r.providers[id]; p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProviders) FindAvailable(serviceTypes []string) ([]models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Provider
	for _, id := range r.order {
		p := r.providers[id]
		if p.Availability && serviceTypeIn(p.ServiceType, serviceTypes) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProviders) LockIfAvailable(id string, serviceTypes []string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok || !p.Availability {
		return nil, nil
	}
	if len(serviceTypes) > 0 && !serviceTypeIn(p.ServiceType, serviceTypes) {
		return nil, nil
	}
	p.Availability = false
	cp := *p
	return &cp, nil
}

func (r *memProviders) Release(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[id]; ok {
		p.Availability = true
	}
	return nil
}

func (r *memProviders) SetAvailability(id string, available bool) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	p.Availability = available
	cp := *p
	return &cp, nil
}

func (r *memProviders) CountAll() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.providers)), nil
}

func (r *memProviders) DistinctNames() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, id := range r.order {
		names = append(names, r.providers[id].Name)
	}
	return names, nil
}

func serviceTypeIn(serviceType string, serviceTypes []string) bool {
	if len(serviceTypes) == 0 {
		return true
	}
	for _, st := range serviceTypes {
		if st == serviceType {
			return true
		}
	}
	return false
}

// memBookings is an in-memory BookingRepository. Conditional updates hold
// the repo lock for the whole check-and-write, mirroring the atomicity of
// the Mongo filtered updates.
type memBookings struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	order    []string
}

func newMemBookings() *memBookings {
	return &memBookings{bookings: make(map[string]*models.Booking)}
}

func (r *memBookings) Create(booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := *booking
	r.bookings[b.BookingID] = &b
	r.order = append(r.order, b.BookingID)
	return nil
}

func (r *memBookings) GetByBookingID(bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[bookingID]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *memBookings) ListByUser(userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for i := len(r.order) - 1; i >= 0; i-- {
		if b := r.bookings[r.order[i]]; b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookings) ListByProvider(providerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for i := len(r.order) - 1; i >= 0; i-- {
		if b := r.bookings[r.order[i]]; b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookings) ListRecent(limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for i := len(r.order) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, *r.bookings[r.order[i]])
	}
	return out, nil
}

func (r *memBookings) CountAll() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bookings)), nil
}

func (r *memBookings) CountByStatus(status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memBookings) UpdateStatusIf(bookingID string, allowedFrom []string, to string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	allowed := false
	for _, from := range allowedFrom {
		if b.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *memBookings) AppendMessage(bookingID string, msg models.Message) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	b.Messages = append(b.Messages, msg)
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *memBookings) UpdateETA(bookingID string, etaMinutes int, etaAt time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	b.EtaMinutes = etaMinutes
	b.EtaAt = etaAt
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *memBookings) SetPaymentIfUnpaid(bookingID, method, txnID string, paidAt time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	if b.PaymentStatus == models.PaymentPaid {
		return nil, nil
	}
	b.PaymentStatus = models.PaymentPaid
	b.PaymentMethod = method
	b.PaymentTxnID = txnID
	b.PaidAt = &paidAt
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *memBookings) SetRating(bookingID string, rating int, review string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	b.Rating = rating
	b.Review = review
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

// failingBookings refuses every insert while delegating everything else.
type failingBookings struct {
	*memBookings
}

func (r *failingBookings) Create(booking *models.Booking) error {
	return errors.New("insert failed")
}

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers(users ...models.User) *memUsers {
	repo := &memUsers{users: make(map[string]*models.User)}
	for i := range users {
		u := users[i]
		repo.users[u.ID] = &u
	}
	return repo
}

func (r *memUsers) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.users[u.ID] = &u
	return nil
}

func (r *memUsers) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUsers) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// recordingNotifier captures everything the service fans out.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []models.Notification
	updates       []*models.Booking
	messages      []models.Message
}

func (n *recordingNotifier) Notify(ctx context.Context, notification models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *recordingNotifier) BookingUpdated(ctx context.Context, booking *models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, booking)
}

func (n *recordingNotifier) MessageSent(ctx context.Context, bookingID string, msg models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) byType(notifType string) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Notification
	for _, notification := range n.notifications {
		if notification.Type == notifType {
			out = append(out, notification)
		}
	}
	return out
}
