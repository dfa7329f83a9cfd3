package middleware

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/response"
)

// ContextClaimsKey is the gin context key storing validated JWT claims.
const ContextClaimsKey = "currentClaims"

// ContextUserKey is the gin context key storing the storage-fresh user set by
// the role gate.
const ContextUserKey = "currentUser"

// UserResolver re-reads the acting user from storage so role and active
// changes take effect mid-session.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate requires a valid access token. The cached active flag in the
// claims short-circuits obviously dead sessions before any storage read.
func Authenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if !claims.Active {
			response.Error(c, appErrors.ErrAccountDisabled)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuthenticate attaches claims when a valid token is present but
// never blocks. The session probe uses it to answer "signed out" with 200.
func OptionalAuthenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		if claims, err := authService.ValidateToken(parts[1]); err == nil {
			c.Set(ContextClaimsKey, claims)
		}
		c.Next()
	}
}

// RequireRole gates a route group on a minimum role, re-reading the user from
// storage on every request. When storage is down the failOpen flag decides
// between trusting the token's cached role and refusing with 503.
func RequireRole(resolver UserResolver, minRole models.UserRole, failOpen bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		user, err := resolver.FindByID(c.Request.Context(), claims.UserID)
		switch {
		case err == nil:
			if !user.Active {
				response.Error(c, appErrors.ErrAccountDisabled)
				c.Abort()
				return
			}
			if !user.Role.AtLeast(minRole) {
				response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient role"))
				c.Abort()
				return
			}
			c.Set(ContextUserKey, &models.UserInfo{
				ID:       user.ID,
				Email:    user.Email,
				FullName: user.FullName,
				Role:     user.Role,
				Active:   user.Active,
			})
		case errors.Is(err, sql.ErrNoRows):
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "account no longer exists"))
			c.Abort()
			return
		case failOpen:
			// Storage is unreachable; fall back to the token's cached view.
			if !claims.Role.AtLeast(minRole) {
				response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient role"))
				c.Abort()
				return
			}
			c.Set(ContextUserKey, &models.UserInfo{
				ID:       claims.UserID,
				Email:    claims.Email,
				FullName: claims.FullName,
				Role:     claims.Role,
				Active:   claims.Active,
			})
		default:
			response.Error(c, appErrors.ErrUnavailable)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Claims returns the validated JWT claims, or nil outside authenticated
// routes.
func Claims(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

// CurrentUser returns the storage-fresh acting user set by RequireRole, or
// nil outside gated routes.
func CurrentUser(c *gin.Context) *models.UserInfo {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.UserInfo)
	return user
}
