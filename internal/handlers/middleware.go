package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"restaurant_web/internal/models"
	"restaurant_web/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookie = "token"
	principalKey  = "principal"
)

// Limiter is a fixed-window rate limiter, implemented by redis.Client.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Authenticate resolves the session cookie (or a bearer token) into a
// principal. Requests without a valid token continue anonymously.
func Authenticate(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token != "" {
			if principal, err := auth.ParseToken(token); err == nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// RequireRole rejects requests whose principal lacks every listed role.
// No roles means any authenticated user.
func RequireRole(logger *logrus.Logger, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.Authorize(currentPrincipal(c), roles...); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) *services.Principal {
	if v, ok := c.Get(principalKey); ok {
		if principal, ok := v.(*services.Principal); ok {
			return principal
		}
	}
	return nil
}

func actorName(c *gin.Context) string {
	if principal := currentPrincipal(c); principal != nil {
		return principal.Email
	}
	return "anonymous"
}

// RateLimit allows limit requests per window per client IP for the named
// bucket. It fails open when the limiter is unavailable.
func RateLimit(limiter Limiter, logger *logrus.Logger, bucket string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		allowed, err := limiter.Allow(c.Request.Context(), bucket+":"+c.ClientIP(), limit, window)
		if err != nil {
			logger.WithError(err).WithField("bucket", bucket).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
