package booking

import (
	"context"
	"testing"

	"fixly/models"
	"fixly/services/access"
	"fixly/services/assign"
	"fixly/services/catalog"
	"fixly/services/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc       *DefaultBookingService
	bookings  *memBookings
	providers *memProviders
	users     *memUsers
	notifier  *recordingNotifier
}

var (
	customerIdent = access.Identity{UserID: "customer-1", Name: "Asha", Role: models.RoleCustomer}
	providerIdent = access.Identity{UserID: "provider-user-1", Name: "Ravi", Role: models.RoleProvider}
	adminIdent    = access.Identity{UserID: "admin-1", Name: "Root", Role: models.RoleAdmin}
	outsiderIdent = access.Identity{UserID: "customer-2", Name: "Meera", Role: models.RoleCustomer}
)

func newTestEnv() *testEnv {
	providers := newMemProviders(models.Provider{
		ID:           "prov-1",
		UserID:       "provider-user-1",
		Name:         "Ravi Kumar",
		ServiceType:  "Plumber",
		Rating:       4.6,
		Availability: true,
		Location:     models.Location{Latitude: 28.6139, Longitude: 77.2212},
	})
	users := newMemUsers(
		models.User{ID: "customer-1", Name: "Asha", Email: "asha@example.com", Phone: "9000000001", Role: models.RoleCustomer},
		models.User{ID: "provider-user-1", Name: "Ravi", Email: "ravi@example.com", Role: models.RoleProvider},
		models.User{ID: "admin-1", Name: "Root", Email: "root@example.com", Role: models.RoleAdmin},
		models.User{ID: "customer-2", Name: "Meera", Email: "meera@example.com", Role: models.RoleCustomer},
	)
	bookings := newMemBookings()
	notifier := &recordingNotifier{}
	cat := catalog.Default()

	svc := &DefaultBookingService{
		Bookings:    bookings,
		Providers:   providers,
		Users:       users,
		Guard:       &access.Guard{Bookings: bookings, Providers: providers},
		Engine:      &assign.DefaultEngine{Providers: providers, Catalog: cat},
		Notifier:    notifier,
		Catalog:     cat,
		AvgSpeedKmh: 30,
	}
	return &testEnv{svc: svc, bookings: bookings, providers: providers, users: users, notifier: notifier}
}

func (e *testEnv) create(t *testing.T, req CreateRequest) *models.Booking {
	t.Helper()
	result, err := e.svc.Create(context.Background(), customerIdent, req)
	require.NoError(t, err)
	return result.Booking
}

func (e *testEnv) createPlumbing(t *testing.T) *models.Booking {
	t.Helper()
	return e.create(t, CreateRequest{
		ServiceType: "Plumber",
		Location:    &models.Location{Latitude: 28.6139, Longitude: 77.209},
	})
}

func TestCreateAssignsAndPrices(t *testing.T) {
	env := newTestEnv()
	result, err := env.svc.Create(context.Background(), customerIdent, CreateRequest{
		ServiceType: "Plumber",
		Location:    &models.Location{Latitude: 28.6139, Longitude: 77.209},
	})
	require.NoError(t, err)

	b := result.Booking
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, "prov-1", b.ProviderID)
	assert.Equal(t, 349, b.Price)
	assert.Equal(t, "Cash", b.PaymentMethod)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	assert.Equal(t, geo.StandardFloorMinutes, b.EtaMinutes)
	assert.InDelta(t, 1.2, b.DistanceKm, 0.1)
	assert.Contains(t, b.BookingID, "SRV")

	// The assigned provider is locked.
	provider, _ := env.providers.GetByID("prov-1")
	assert.False(t, provider.Availability)

	// Both parties were notified.
	assert.Len(t, env.notifier.byType(models.NotifBookingAssigned), 1)
	assert.Len(t, env.notifier.byType(models.NotifBookingCreated), 1)
	assigned := env.notifier.byType(models.NotifBookingAssigned)[0]
	assert.Equal(t, "provider-user-1", assigned.RecipientID)
	assert.Equal(t, models.ActionRespondBooking, assigned.ActionType)
}

func TestCreateEmergencyPricingAndETA(t *testing.T) {
	env := newTestEnv()
	b := env.create(t, CreateRequest{
		ServiceType: "Plumber",
		Location:    &models.Location{Latitude: 28.6139, Longitude: 77.209},
		IsEmergency: true,
	})
	// 349 * 1.5 rounds to 524.
	assert.Equal(t, 524, b.Price)
	assert.Equal(t, geo.EmergencyFloorMinutes, b.EtaMinutes)
}

func TestCreateWithoutLocationUsesFallback(t *testing.T) {
	env := newTestEnv()
	b := env.create(t, CreateRequest{ServiceType: "Plumber"})
	assert.Equal(t, catalog.FallbackLocation, b.UserLocation)
}

func TestCreateRejectsProviderRole(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Create(context.Background(), providerIdent, CreateRequest{ServiceType: "Plumber"})
	assert.True(t, IsCode(err, CodeAccessDenied))
}

func TestCreateRequiresServiceType(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Create(context.Background(), customerIdent, CreateRequest{ServiceType: "  "})
	assert.True(t, IsCode(err, CodeValidation))
}

func TestCreateNoProvidersIsContention(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Create(context.Background(), customerIdent, CreateRequest{ServiceType: "Cooking"})
	assert.True(t, IsCode(err, CodeContention))
}

func TestCreateReleasesProviderWhenPersistFails(t *testing.T) {
	env := newTestEnv()
	env.svc.Bookings = &failingBookings{env.bookings}

	_, err := env.svc.Create(context.Background(), customerIdent, CreateRequest{ServiceType: "Plumber"})
	assert.True(t, IsCode(err, CodeInfrastructure))

	// The lock taken for the doomed booking must be compensated so the
	// provider is not stranded unavailable.
	provider, _ := env.providers.GetByID("prov-1")
	assert.True(t, provider.Availability)
	assert.Empty(t, env.notifier.notifications)
}

func TestCreateSecondBookingWhileProviderBusy(t *testing.T) {
	env := newTestEnv()
	env.createPlumbing(t)

	_, err := env.svc.Create(context.Background(), outsiderIdent, CreateRequest{ServiceType: "Plumber"})
	assert.True(t, IsCode(err, CodeContention))
}

func TestAcceptTransitionsToActive(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	updated, err := env.svc.Accept(context.Background(), providerIdent, b.BookingID, "On my way")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)
	require.Len(t, updated.Messages, 1)
	assert.Equal(t, models.RoleProvider, updated.Messages[0].SenderRole)
	assert.Equal(t, "On my way", updated.Messages[0].Text)

	assert.Len(t, env.notifier.byType(models.NotifBookingAccepted), 1)
	assert.NotEmpty(t, env.notifier.updates)
}

func TestAcceptTwiceIsInvalidState(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	_, err := env.svc.Accept(context.Background(), providerIdent, b.BookingID, "")
	require.NoError(t, err)
	_, err = env.svc.Accept(context.Background(), providerIdent, b.BookingID, "")
	assert.True(t, IsCode(err, CodeInvalidState))
}

func TestRejectReleasesProvider(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	updated, err := env.svc.Reject(context.Background(), providerIdent, b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	provider, _ := env.providers.GetByID("prov-1")
	assert.True(t, provider.Availability)

	rejected := env.notifier.byType(models.NotifBookingRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "customer-1", rejected[0].RecipientID)
	assert.Equal(t, models.ActionRebook, rejected[0].ActionType)
}

func TestRejectAfterCancelIsInvalidState(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	_, err := env.svc.Cancel(context.Background(), customerIdent, b.BookingID)
	require.NoError(t, err)

	_, err = env.svc.Reject(context.Background(), providerIdent, b.BookingID)
	assert.True(t, IsCode(err, CodeInvalidState))

	stored, _ := env.bookings.GetByBookingID(b.BookingID)
	assert.Equal(t, models.StatusCancelled, stored.Status)
}

func TestProviderActionOnUnassignedBooking(t *testing.T) {
	env := newTestEnv()
	env.providers.Create(&models.Provider{
		ID: "prov-2", UserID: "provider-user-2", Name: "Other", ServiceType: "Plumber", Availability: true,
	})
	b := env.createPlumbing(t)

	other := access.Identity{UserID: "provider-user-2", Role: models.RoleProvider}
	_, err := env.svc.Accept(context.Background(), other, b.BookingID, "")
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestUpdateProgressRequiresSomething(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	_, err := env.svc.UpdateProgress(context.Background(), providerIdent, b.BookingID, 0, "  ")
	assert.True(t, IsCode(err, CodeValidation))
}

func TestUpdateProgressRevisesETA(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	updated, err := env.svc.UpdateProgress(context.Background(), providerIdent, b.BookingID, 25, "Stuck in traffic")
	require.NoError(t, err)
	assert.Equal(t, 25, updated.EtaMinutes)
	require.Len(t, updated.Messages, 1)
	assert.Equal(t, "Stuck in traffic", updated.Messages[0].Text)
	assert.Len(t, env.notifier.byType(models.NotifBookingUpdated), 1)
}

func TestUpdateProgressOnClosedBooking(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)
	_, err := env.svc.Cancel(context.Background(), customerIdent, b.BookingID)
	require.NoError(t, err)

	_, err = env.svc.UpdateProgress(context.Background(), providerIdent, b.BookingID, 25, "on my way")
	assert.True(t, IsCode(err, CodeInvalidState))

	stored, _ := env.bookings.GetByBookingID(b.BookingID)
	assert.Empty(t, stored.Messages)
}

func TestCancelPendingBooking(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	updated, err := env.svc.Cancel(context.Background(), customerIdent, b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	provider, _ := env.providers.GetByID("prov-1")
	assert.True(t, provider.Availability)
	cancelled := env.notifier.byType(models.NotifBookingCancelled)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "provider-user-1", cancelled[0].RecipientID)
}

func TestCancelActiveBooking(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)
	_, err := env.svc.Accept(context.Background(), providerIdent, b.BookingID, "")
	require.NoError(t, err)

	updated, err := env.svc.Cancel(context.Background(), customerIdent, b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestCancelCompletedBookingIsInvalidState(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)
	_, err := env.svc.Accept(context.Background(), providerIdent, b.BookingID, "")
	require.NoError(t, err)
	_, err = env.svc.Rate(context.Background(), customerIdent, b.BookingID, 5, "")
	require.NoError(t, err)

	_, err = env.svc.Cancel(context.Background(), customerIdent, b.BookingID)
	assert.True(t, IsCode(err, CodeInvalidState))
}

func TestCancelByStrangerIsNotFound(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	_, err := env.svc.Cancel(context.Background(), outsiderIdent, b.BookingID)
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestRateCompletesActiveBooking(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)
	_, err := env.svc.Accept(context.Background(), providerIdent, b.BookingID, "")
	require.NoError(t, err)

	updated, err := env.svc.Rate(context.Background(), customerIdent, b.BookingID, 4, "Good work")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "Good work", updated.Review)

	provider, _ := env.providers.GetByID("prov-1")
	assert.True(t, provider.Availability)
}

func TestRateCancelledBookingKeepsStatus(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)
	_, err := env.svc.Cancel(context.Background(), customerIdent, b.BookingID)
	require.NoError(t, err)

	updated, err := env.svc.Rate(context.Background(), customerIdent, b.BookingID, 2, "Never showed up")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, 2, updated.Rating)
}

func TestRateValidatesRange(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	for _, rating := range []int{0, -1, 6} {
		_, err := env.svc.Rate(context.Background(), customerIdent, b.BookingID, rating, "")
		assert.True(t, IsCode(err, CodeValidation))
	}
}

func TestPayExactlyOnce(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	updated, err := env.svc.Pay(context.Background(), customerIdent, b.BookingID, "UPI")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, "UPI", updated.PaymentMethod)
	assert.Contains(t, updated.PaymentTxnID, "TXN")
	require.NotNil(t, updated.PaidAt)

	_, err = env.svc.Pay(context.Background(), customerIdent, b.BookingID, "Cash")
	assert.True(t, IsCode(err, CodeAlreadyDone))

	payments := env.notifier.byType(models.NotifPaymentUpdate)
	assert.Len(t, payments, 1)
}

func TestPayDefaultsToBookingMethod(t *testing.T) {
	env := newTestEnv()
	b := env.create(t, CreateRequest{ServiceType: "Plumber", PaymentMethod: "Card"})

	updated, err := env.svc.Pay(context.Background(), customerIdent, b.BookingID, "")
	require.NoError(t, err)
	assert.Equal(t, "Card", updated.PaymentMethod)
}

func TestSendMessageAppendsAndNotifies(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	messages, err := env.svc.SendMessage(context.Background(), customerIdent, b.BookingID, "  When will you arrive?  ")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.RoleCustomer, messages[0].SenderRole)
	assert.Equal(t, "When will you arrive?", messages[0].Text)
	assert.Equal(t, "Asha", messages[0].SenderName)

	newMessage := env.notifier.byType(models.NotifNewMessage)
	require.Len(t, newMessage, 1)
	assert.Equal(t, "provider-user-1", newMessage[0].RecipientID)
	assert.Len(t, env.notifier.messages, 1)
}

func TestSendMessageByProviderNotifiesCustomer(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	messages, err := env.svc.SendMessage(context.Background(), providerIdent, b.BookingID, "Reaching in 10")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.RoleProvider, messages[0].SenderRole)

	newMessage := env.notifier.byType(models.NotifNewMessage)
	require.Len(t, newMessage, 1)
	assert.Equal(t, "customer-1", newMessage[0].RecipientID)
}

func TestSendMessageByStrangerIsDenied(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	_, err := env.svc.SendMessage(context.Background(), outsiderIdent, b.BookingID, "hello")
	assert.True(t, IsCode(err, CodeAccessDenied))
}

func TestSendMessageValidatesText(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	_, err := env.svc.SendMessage(context.Background(), customerIdent, b.BookingID, "   ")
	assert.True(t, IsCode(err, CodeValidation))
}

func TestGetHidesBookingFromStrangers(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	view, err := env.svc.Get(context.Background(), customerIdent, b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingID, view.Booking.BookingID)
	require.NotNil(t, view.Provider)
	assert.Equal(t, "Ravi Kumar", view.Provider.Name)

	_, err = env.svc.Get(context.Background(), outsiderIdent, b.BookingID)
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestHistoryCarriesProviderNames(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	entries, err := env.svc.History(context.Background(), customerIdent)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, b.BookingID, entries[0].Booking.BookingID)
	assert.Equal(t, "Ravi Kumar", entries[0].ProviderName)

	entries, err = env.svc.History(context.Background(), outsiderIdent)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAssignmentsForProvider(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	view, err := env.svc.Assignments(context.Background(), providerIdent)
	require.NoError(t, err)
	assert.Equal(t, "prov-1", view.Provider.ID)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, b.BookingID, view.Entries[0].Booking.BookingID)
	require.NotNil(t, view.Entries[0].Customer)
	assert.Equal(t, "Asha", view.Entries[0].Customer.Name)

	_, err = env.svc.Assignments(context.Background(), customerIdent)
	assert.True(t, IsCode(err, CodeAccessDenied))
}

func TestSetAvailability(t *testing.T) {
	env := newTestEnv()

	updated, err := env.svc.SetAvailability(context.Background(), providerIdent, false)
	require.NoError(t, err)
	assert.False(t, updated.Availability)

	updated, err = env.svc.SetAvailability(context.Background(), providerIdent, true)
	require.NoError(t, err)
	assert.True(t, updated.Availability)

	_, err = env.svc.SetAvailability(context.Background(), customerIdent, true)
	assert.True(t, IsCode(err, CodeAccessDenied))
}

func TestAdminOverview(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	overview, err := env.svc.AdminOverview(context.Background(), adminIdent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.TotalBookings)
	assert.Equal(t, int64(1), overview.PendingBookings)
	assert.Equal(t, int64(0), overview.ActiveBookings)
	assert.Equal(t, int64(1), overview.TotalProviders)
	require.Len(t, overview.Recent, 1)
	assert.Equal(t, b.BookingID, overview.Recent[0].BookingID)
	assert.Equal(t, "Asha", overview.CustomerNames["customer-1"])

	_, err = env.svc.AdminOverview(context.Background(), customerIdent)
	assert.True(t, IsCode(err, CodeAccessDenied))
}

func TestAdminCanReadAnyBooking(t *testing.T) {
	env := newTestEnv()
	b := env.createPlumbing(t)

	view, err := env.svc.Get(context.Background(), adminIdent, b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingID, view.Booking.BookingID)
}
