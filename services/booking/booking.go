package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "fixly/database/repository/booking"
	providerRepo "fixly/database/repository/provider"
	userRepo "fixly/database/repository/user"
	"fixly/models"
	"fixly/services/access"
	"fixly/services/assign"
	"fixly/services/catalog"
	"fixly/services/geo"
	"fixly/services/realtime"
	"fixly/utils"

	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation of Service.
type DefaultBookingService struct {
	Bookings    bookingRepo.BookingRepository
	Providers   providerRepo.ProviderRepository
	Users       userRepo.UserRepository
	Guard       *access.Guard
	Engine      assign.Engine
	Notifier    realtime.Notifier
	Catalog     *catalog.Catalog
	AvgSpeedKmh float64
}

// Create runs the full assignment flow: validate, lock a provider, price
// the job, persist the booking and notify both parties. If persisting fails
// after a provider was locked, the lock is released before returning so no
// provider is stranded unavailable.
func (s *DefaultBookingService) Create(ctx context.Context, ident access.Identity, req CreateRequest) (*CreateResult, error) {
	if ident.Role == models.RoleProvider {
		return nil, NewError(CodeAccessDenied, "Providers cannot create customer bookings")
	}
	if strings.TrimSpace(req.ServiceType) == "" {
		return nil, NewError(CodeValidation, "serviceType is required")
	}

	location := catalog.FallbackLocation
	if req.Location != nil {
		location = *req.Location
	}

	assignment, err := s.Engine.Assign(assign.Request{
		ServiceType:         req.ServiceType,
		Location:            location,
		PreferredProviderID: req.PreferredProviderID,
	})
	if err != nil {
		var noProvider *assign.NoProviderError
		if errors.As(err, &noProvider) {
			return nil, NewError(CodeContention, noProvider.Error())
		}
		return nil, NewError(CodeInfrastructure, "Booking failed")
	}
	provider := assignment.Provider

	eta := geo.ComputeETA(assignment.DistanceKm, req.IsEmergency, s.AvgSpeedKmh)
	method := req.PaymentMethod
	if method == "" {
		method = "Cash"
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		BookingID:     NewBookingID(),
		UserID:        ident.UserID,
		ProviderID:    provider.ID,
		ServiceType:   req.ServiceType,
		Status:        models.StatusPending,
		EtaAt:         eta.At,
		EtaMinutes:    eta.Minutes,
		DistanceKm:    assignment.DistanceKm,
		Price:         QuotePrice(s.Catalog, req.ServiceType, req.IsEmergency),
		UserLocation:  location,
		IsEmergency:   req.IsEmergency,
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
		Messages:      []models.Message{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Bookings.Create(booking); err != nil {
		// Compensate: the provider was locked for a booking that will never
		// exist.
		if relErr := s.Providers.Release(provider.ID); relErr != nil {
			utils.GetLogger().Error("failed to release provider after persist failure",
				zap.String("providerId", provider.ID), zap.Error(relErr))
		}
		return nil, NewError(CodeInfrastructure, "Booking failed")
	}

	if provider.UserID != "" {
		s.notify(ctx, models.Notification{
			RecipientID: provider.UserID,
			BookingID:   booking.BookingID,
			Type:        models.NotifBookingAssigned,
			Title:       "New booking request",
			Message:     fmt.Sprintf("%s booking needs your action", req.ServiceType),
			ActionType:  models.ActionRespondBooking,
		})
	}
	s.notify(ctx, models.Notification{
		RecipientID: ident.UserID,
		BookingID:   booking.BookingID,
		Type:        models.NotifBookingCreated,
		Title:       "Booking created",
		Message:     fmt.Sprintf("Booking %s has been assigned and is waiting for provider acceptance", booking.BookingID),
	})

	return &CreateResult{Booking: booking, Provider: provider}, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, ident access.Identity, bookingID string) (*View, error) {
	booking, err := s.Guard.ResolveBooking(bookingID, ident)
	if err != nil {
		return nil, s.guardError(err)
	}

	view := &View{Booking: booking}
	if provider, err := s.Providers.GetByID(booking.ProviderID); err == nil {
		view.Provider = provider
	}
	if customer, err := s.Users.GetByID(booking.UserID); err == nil {
		view.Customer = customer
	}
	return view, nil
}

func (s *DefaultBookingService) History(ctx context.Context, ident access.Identity) ([]HistoryEntry, error) {
	bookings, err := s.Bookings.ListByUser(ident.UserID)
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load history")
	}

	names := map[string]string{}
	entries := make([]HistoryEntry, 0, len(bookings))
	for _, b := range bookings {
		name, ok := names[b.ProviderID]
		if !ok {
			if provider, err := s.Providers.GetByID(b.ProviderID); err == nil && provider != nil {
				name = provider.Name
			}
			names[b.ProviderID] = name
		}
		entries = append(entries, HistoryEntry{Booking: b, ProviderName: name})
	}
	return entries, nil
}

// Accept transitions PENDING -> ACTIVE for the assigned provider. An
// optional note is appended to the conversation.
func (s *DefaultBookingService) Accept(ctx context.Context, ident access.Identity, bookingID, note string) (*models.Booking, error) {
	provider, booking, err := s.resolveAssigned(ident, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Bookings.UpdateStatusIf(bookingID, []string{models.StatusPending}, models.StatusActive)
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Failed provider action")
	}
	if updated == nil {
		return nil, NewError(CodeInvalidState, "Booking cannot be accepted in its current state")
	}

	if text := strings.TrimSpace(note); text != "" {
		msg := models.Message{
			SenderRole: models.RoleProvider,
			SenderID:   ident.UserID,
			SenderName: provider.Name,
			Text:       text,
			SentAt:     time.Now().UTC(),
		}
		if withMsg, err := s.Bookings.AppendMessage(bookingID, msg); err == nil && withMsg != nil {
			updated = withMsg
		}
	}

	s.notify(ctx, models.Notification{
		RecipientID: booking.UserID,
		BookingID:   bookingID,
		Type:        models.NotifBookingAccepted,
		Title:       "Provider accepted booking",
		Message:     fmt.Sprintf("%s accepted booking %s", provider.Name, bookingID),
	})
	s.Notifier.BookingUpdated(ctx, updated)
	return updated, nil
}

// Reject transitions PENDING -> REJECTED and releases the provider back into
// the assignable pool.
func (s *DefaultBookingService) Reject(ctx context.Context, ident access.Identity, bookingID string) (*models.Booking, error) {
	provider, booking, err := s.resolveAssigned(ident, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Bookings.UpdateStatusIf(bookingID, []string{models.StatusPending}, models.StatusRejected)
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Failed provider action")
	}
	if updated == nil {
		return nil, NewError(CodeInvalidState, "Booking cannot be rejected in its current state")
	}

	s.release(provider.ID)

	s.notify(ctx, models.Notification{
		RecipientID: booking.UserID,
		BookingID:   bookingID,
		Type:        models.NotifBookingRejected,
		Title:       "Provider rejected booking",
		Message:     fmt.Sprintf("%s rejected booking %s", provider.Name, bookingID),
		ActionType:  models.ActionRebook,
	})
	s.Notifier.BookingUpdated(ctx, updated)
	return updated, nil
}

// UpdateProgress lets the assigned provider revise the ETA and/or post a
// progress note. At least one of the two must be supplied.
func (s *DefaultBookingService) UpdateProgress(ctx context.Context, ident access.Identity, bookingID string, etaMinutes int, note string) (*models.Booking, error) {
	provider, booking, err := s.resolveAssigned(ident, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Terminal() {
		return nil, NewError(CodeInvalidState, "Booking is already closed")
	}

	text := strings.TrimSpace(note)
	if etaMinutes <= 0 && text == "" {
		return nil, NewError(CodeValidation, "Nothing to update")
	}

	updated := booking
	if etaMinutes > 0 {
		etaAt := time.Now().Add(time.Duration(etaMinutes) * time.Minute)
		updated, err = s.Bookings.UpdateETA(bookingID, etaMinutes, etaAt)
		if err != nil || updated == nil {
			return nil, NewError(CodeInfrastructure, "Failed provider action")
		}
	}
	if text != "" {
		msg := models.Message{
			SenderRole: models.RoleProvider,
			SenderID:   ident.UserID,
			SenderName: provider.Name,
			Text:       text,
			SentAt:     time.Now().UTC(),
		}
		updated, err = s.Bookings.AppendMessage(bookingID, msg)
		if err != nil || updated == nil {
			return nil, NewError(CodeInfrastructure, "Failed provider action")
		}
	}

	body := text
	if body == "" {
		body = fmt.Sprintf("ETA updated to %d minutes", updated.EtaMinutes)
	}
	s.notify(ctx, models.Notification{
		RecipientID: booking.UserID,
		BookingID:   bookingID,
		Type:        models.NotifBookingUpdated,
		Title:       "Provider update",
		Message:     body,
	})
	s.Notifier.BookingUpdated(ctx, updated)
	return updated, nil
}

// Cancel transitions PENDING or ACTIVE -> CANCELLED for the owning customer
// and releases the provider.
func (s *DefaultBookingService) Cancel(ctx context.Context, ident access.Identity, bookingID string) (*models.Booking, error) {
	booking, err := s.resolveOwned(ident, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Bookings.UpdateStatusIf(bookingID,
		[]string{models.StatusPending, models.StatusActive}, models.StatusCancelled)
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Cancel failed")
	}
	if updated == nil {
		return nil, NewError(CodeInvalidState, "Booking cannot be cancelled")
	}

	s.release(booking.ProviderID)

	if provider, err := s.Providers.GetByID(booking.ProviderID); err == nil && provider != nil && provider.UserID != "" {
		s.notify(ctx, models.Notification{
			RecipientID: provider.UserID,
			BookingID:   bookingID,
			Type:        models.NotifBookingCancelled,
			Title:       "Booking cancelled",
			Message:     fmt.Sprintf("Customer cancelled booking %s", bookingID),
		})
	}
	s.Notifier.BookingUpdated(ctx, updated)
	return updated, nil
}

// Rate stores the customer's rating and review. An ACTIVE booking is
// promoted to COMPLETED; terminal bookings keep their status but still take
// the rating. The provider is released either way, which makes the release
// idempotent across cancel-then-rate sequences.
func (s *DefaultBookingService) Rate(ctx context.Context, ident access.Identity, bookingID string, rating int, review string) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, NewError(CodeValidation, "rating must be between 1 and 5")
	}
	booking, err := s.resolveOwned(ident, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Bookings.SetRating(bookingID, rating, review)
	if err != nil || updated == nil {
		return nil, NewError(CodeInfrastructure, "Rating failed")
	}
	if promoted, err := s.Bookings.UpdateStatusIf(bookingID,
		[]string{models.StatusActive}, models.StatusCompleted); err == nil && promoted != nil {
		updated = promoted
	}

	s.release(booking.ProviderID)
	s.Notifier.BookingUpdated(ctx, updated)
	return updated, nil
}

// Pay records a synthetic test-mode payment exactly once.
func (s *DefaultBookingService) Pay(ctx context.Context, ident access.Identity, bookingID, method string) (*models.Booking, error) {
	booking, err := s.resolveOwned(ident, bookingID)
	if err != nil {
		return nil, err
	}

	if method == "" {
		method = booking.PaymentMethod
	}
	if method == "" {
		method = "Cash"
	}

	updated, err := s.Bookings.SetPaymentIfUnpaid(bookingID, method, NewTxnID(), time.Now().UTC())
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Payment failed")
	}
	if updated == nil {
		return nil, NewError(CodeAlreadyDone, "Payment already completed")
	}

	if provider, err := s.Providers.GetByID(booking.ProviderID); err == nil && provider != nil && provider.UserID != "" {
		s.notify(ctx, models.Notification{
			RecipientID: provider.UserID,
			BookingID:   bookingID,
			Type:        models.NotifPaymentUpdate,
			Title:       "Payment completed",
			Message:     fmt.Sprintf("Customer completed payment for %s", bookingID),
		})
	}
	s.Notifier.BookingUpdated(ctx, updated)
	return updated, nil
}

// SendMessage appends a chat message and fans it out: a push to everyone
// watching the booking and a notification to the other party.
func (s *DefaultBookingService) SendMessage(ctx context.Context, ident access.Identity, bookingID, text string) ([]models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewError(CodeValidation, "Message text required")
	}

	booking, err := s.Bookings.GetByBookingID(bookingID)
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to send message")
	}
	if booking == nil {
		return nil, NewError(CodeNotFound, "Booking not found")
	}

	senderRole, err := s.Guard.MessageSenderRole(booking, ident)
	if err != nil {
		return nil, NewError(CodeAccessDenied, "Access denied")
	}

	senderName := senderRole
	if user, err := s.Users.GetByID(ident.UserID); err == nil && user != nil {
		senderName = user.Name
	}

	msg := models.Message{
		SenderRole: senderRole,
		SenderID:   ident.UserID,
		SenderName: senderName,
		Text:       text,
		SentAt:     time.Now().UTC(),
	}
	updated, err := s.Bookings.AppendMessage(bookingID, msg)
	if err != nil || updated == nil {
		return nil, NewError(CodeInfrastructure, "Failed to send message")
	}

	s.Notifier.MessageSent(ctx, bookingID, msg)

	if recipientID := s.otherParty(booking, senderRole); recipientID != "" {
		s.notify(ctx, models.Notification{
			RecipientID: recipientID,
			BookingID:   bookingID,
			Type:        models.NotifNewMessage,
			Title:       "New message",
			Message:     fmt.Sprintf("%s: %s", senderName, text),
		})
	}
	return updated.Messages, nil
}

func (s *DefaultBookingService) Messages(ctx context.Context, ident access.Identity, bookingID string) ([]models.Message, error) {
	booking, err := s.Guard.ResolveBooking(bookingID, ident)
	if err != nil {
		return nil, s.guardError(err)
	}
	return booking.Messages, nil
}

func (s *DefaultBookingService) Assignments(ctx context.Context, ident access.Identity) (*AssignmentsView, error) {
	provider, err := s.Guard.ProviderProfile(ident)
	if err != nil {
		return nil, s.guardError(err)
	}

	bookings, err := s.Bookings.ListByProvider(provider.ID)
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load assignments")
	}

	view := &AssignmentsView{Provider: provider}
	for _, b := range bookings {
		entry := AssignmentEntry{Booking: b}
		if customer, err := s.Users.GetByID(b.UserID); err == nil {
			entry.Customer = customer
		}
		view.Entries = append(view.Entries, entry)
	}
	return view, nil
}

// SetAvailability is the provider's manual online/offline toggle. It has no
// precondition; it may race the automatic lock/release and is idempotent at
// the flag level.
func (s *DefaultBookingService) SetAvailability(ctx context.Context, ident access.Identity, available bool) (*models.Provider, error) {
	provider, err := s.Guard.ProviderProfile(ident)
	if err != nil {
		return nil, s.guardError(err)
	}

	updated, err := s.Providers.SetAvailability(provider.ID, available)
	if err != nil || updated == nil {
		return nil, NewError(CodeInfrastructure, "Failed to update availability")
	}
	return updated, nil
}

func (s *DefaultBookingService) AdminOverview(ctx context.Context, ident access.Identity) (*Overview, error) {
	if ident.Role != models.RoleAdmin {
		return nil, NewError(CodeAccessDenied, "Access denied")
	}

	overview := &Overview{CustomerNames: map[string]string{}}
	var err error
	if overview.TotalBookings, err = s.Bookings.CountAll(); err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load admin overview")
	}
	if overview.ActiveBookings, err = s.Bookings.CountByStatus(models.StatusActive); err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load admin overview")
	}
	if overview.PendingBookings, err = s.Bookings.CountByStatus(models.StatusPending); err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load admin overview")
	}
	if overview.CompletedBookings, err = s.Bookings.CountByStatus(models.StatusCompleted); err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load admin overview")
	}
	if overview.TotalProviders, err = s.Providers.CountAll(); err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load admin overview")
	}
	if overview.Recent, err = s.Bookings.ListRecent(20); err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to load admin overview")
	}
	for _, b := range overview.Recent {
		if _, ok := overview.CustomerNames[b.UserID]; ok {
			continue
		}
		if user, err := s.Users.GetByID(b.UserID); err == nil && user != nil {
			overview.CustomerNames[b.UserID] = user.Name
		}
	}
	return overview, nil
}

// resolveAssigned loads the booking for a provider action: the caller must
// hold a provider profile and the booking must be assigned to it. Anything
// else reads as not found.
func (s *DefaultBookingService) resolveAssigned(ident access.Identity, bookingID string) (*models.Provider, *models.Booking, error) {
	provider, err := s.Guard.ProviderProfile(ident)
	if err != nil {
		return nil, nil, s.guardError(err)
	}
	booking, err := s.Bookings.GetByBookingID(bookingID)
	if err != nil {
		return nil, nil, NewError(CodeInfrastructure, "Failed provider action")
	}
	if booking == nil || booking.ProviderID != provider.ID {
		return nil, nil, NewError(CodeNotFound, "Booking not found")
	}
	return provider, booking, nil
}

// resolveOwned loads the booking for a customer action: only the owning
// customer passes; everyone else reads not found.
func (s *DefaultBookingService) resolveOwned(ident access.Identity, bookingID string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByBookingID(bookingID)
	if err != nil {
		return nil, NewError(CodeInfrastructure, "Failed to fetch booking")
	}
	if booking == nil || booking.UserID != ident.UserID {
		return nil, NewError(CodeNotFound, "Booking not found")
	}
	return booking, nil
}

func (s *DefaultBookingService) guardError(err error) error {
	switch {
	case errors.Is(err, access.ErrBookingNotFound):
		return NewError(CodeNotFound, "Booking not found")
	case errors.Is(err, access.ErrForbidden):
		return NewError(CodeAccessDenied, "Access denied")
	case errors.Is(err, access.ErrNoProviderProfile):
		return NewError(CodeNotFound, "Provider profile not found")
	default:
		return NewError(CodeInfrastructure, "Operation failed")
	}
}

// notify records and pushes a notification. The triggering state change has
// already been persisted, so a notification failure is logged rather than
// failing the operation.
func (s *DefaultBookingService) notify(ctx context.Context, n models.Notification) {
	if err := s.Notifier.Notify(ctx, n); err != nil {
		utils.GetLogger().Warn("failed to deliver notification",
			zap.String("type", n.Type), zap.String("recipientId", n.RecipientID), zap.Error(err))
	}
}

func (s *DefaultBookingService) release(providerID string) {
	if err := s.Providers.Release(providerID); err != nil {
		utils.GetLogger().Error("failed to release provider",
			zap.String("providerId", providerID), zap.Error(err))
	}
}

func (s *DefaultBookingService) otherParty(booking *models.Booking, senderRole string) string {
	if senderRole == models.RoleProvider {
		return booking.UserID
	}
	provider, err := s.Providers.GetByID(booking.ProviderID)
	if err != nil || provider == nil {
		return ""
	}
	return provider.UserID
}
