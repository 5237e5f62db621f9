package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	userRepo "fixly/database/repository/user"
	"fixly/models"
	"fixly/services/access"
	"fixly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// identityKey is where the resolved identity lives in the gin context.
const identityKey = "identity"

const (
	authCachePrefix = "auth:user:"
	authCacheTTL    = 10 * time.Minute
)

// JWTAuthMiddleware validates the bearer token, loads the account and puts
// an access.Identity into the context. The account lookup is cached in
// Redis with a short TTL, so a role change takes at most authCacheTTL to
// propagate.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()
		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := cachedUser(ctx, users, claims.UserID, logger)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(identityKey, access.Identity{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		})
		c.Next()
	}
}

// cachedUser loads the account through the auth cache. Cache errors fall
// through to the repository; a request must never fail because Redis is
// down.
func cachedUser(ctx context.Context, users userRepo.UserRepository, userID string, logger *zap.Logger) (*models.User, error) {
	cache := utils.GetCacheClient()
	cacheKey := authCachePrefix + userID

	if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	} else if err != redis.Nil {
		logger.Error("Error checking auth cache", zap.Error(err))
	}

	user, err := users.GetByID(userID)
	if err != nil || user == nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		if err := cache.Set(ctx, cacheKey, payload, authCacheTTL).Err(); err != nil {
			logger.Error("Failed to set auth cache", zap.Error(err))
		}
	}
	return user, nil
}

// IdentityFrom pulls the authenticated identity out of the gin context.
func IdentityFrom(c *gin.Context) (access.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return access.Identity{}, false
	}
	ident, ok := value.(access.Identity)
	return ident, ok
}
