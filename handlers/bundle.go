package handlers

import (
	userRepo "fixly/database/repository/user"
)

// HandlerBundle groups the handlers and the shared dependencies route
// registration needs.
type HandlerBundle struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Booking      *BookingHandler
	Provider     *ProviderHandler
	Notification *NotificationHandler
	Admin        *AdminHandler
	Realtime     *RealtimeHandler

	UserRepo userRepo.UserRepository
}
