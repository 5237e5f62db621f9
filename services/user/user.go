// Package user handles registration and sign-in. Credentials are issued
// here; everything downstream consumes only the authenticated identity
// carried in the token.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	providerRepo "fixly/database/repository/provider"
	userRepo "fixly/database/repository/user"
	"fixly/models"
	"fixly/services/catalog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Sign-in failures are deliberately indistinguishable between unknown email
// and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when registering an address already on record.
var ErrEmailTaken = errors.New("email already registered")

// ErrMissingFields is returned when a registration omits required fields.
var ErrMissingFields = errors.New("all fields are required")

// RegisterRequest carries a new account's details. Provider fields are only
// consulted when role is PROVIDER.
type RegisterRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	ServiceType string   `json:"serviceType"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UserService defines account management methods.
type UserService interface {
	Register(req RegisterRequest) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
}

// Register creates a user, hashing the password and whitelisting the role
// (anything but PROVIDER collapses to CUSTOMER — admins are not
// self-service). Registering a provider also creates their provider
// profile, available and rated at the platform default.
func (s *DefaultUserService) Register(req RegisterRequest) (*models.User, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Phone) == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleCustomer
	if req.Role == models.RoleProvider {
		role = models.RoleProvider
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	if role == models.RoleProvider {
		serviceType := req.ServiceType
		if serviceType == "" {
			serviceType = "Misc"
		}
		location := catalog.FallbackLocation
		if req.Latitude != nil && req.Longitude != nil {
			location = models.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
		}
		provider := &models.Provider{
			ID:           uuid.New().String(),
			UserID:       user.ID,
			Name:         user.Name,
			ServiceType:  serviceType,
			Rating:       4.6,
			Availability: true,
			Location:     location,
			ImageURL:     "https://placehold.co/120x120",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.Providers.Create(provider); err != nil {
			return nil, fmt.Errorf("failed to create provider profile: %w", err)
		}
	}

	return user, nil
}

// Authenticate verifies the email/password pair and returns the account.
func (s *DefaultUserService) Authenticate(email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
