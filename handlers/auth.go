package handlers

import (
	"errors"
	"net/http"
	"time"

	"fixly/config"
	userService "fixly/services/user"
	"fixly/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Users userService.UserService
}

func NewAuthHandler(users userService.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req userService.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	user, err := h.Users.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, userService.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		case errors.Is(err, userService.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	user, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userService.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password required"})
		case errors.Is(err, userService.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		default:
			respondError(c, err)
		}
		return
	}

	expiry := time.Duration(config.AppConfig.JWTExpiryHours) * time.Hour
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, expiry)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}
