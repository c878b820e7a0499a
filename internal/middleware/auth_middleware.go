package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/jwt"
)

// AdminContextKey is the key used to store the signed-in staff member in Gin context
const AdminContextKey = "admin"

// LoginPath is where browsers without a valid session are sent
const LoginPath = "/login"

// AdminContext represents the authenticated staff member's session
type AdminContext struct {
	AdminID   uuid.UUID `json:"admin_id"`
	Email     string    `json:"email"`
	SessionID uuid.UUID `json:"session_id"`
	Roles     []string  `json:"roles"`
}

// AuthMiddleware validates the staff session token from the session cookie
// or an Authorization: Bearer header. Browsers are redirected to the login
// page; JSON clients get a 401 body.
func AuthMiddleware(jwtService *jwt.Service, cookieName string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, code, message := sessionToken(c, cookieName)
		if tokenString == "" {
			logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
				"code": code,
			}).Debug("Auth failed")
			reject(c, http.StatusUnauthorized, "unauthorized", message, code)
			return
		}

		claims, err := jwtService.ValidateSessionToken(tokenString)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"ip":    c.ClientIP(),
				"error": err.Error(),
			}).Info("Auth failed: invalid session token")

			if errors.Is(err, jwt.ErrTokenExpired) {
				reject(c, http.StatusUnauthorized, "token_expired", "Session has expired. Please sign in again.", "TOKEN_EXPIRED")
			} else {
				reject(c, http.StatusUnauthorized, "invalid_token", "Invalid session token", "INVALID_TOKEN")
			}
			return
		}

		c.Set(AdminContextKey, AdminContext{
			AdminID:   claims.AdminID,
			Email:     claims.Email,
			SessionID: claims.SessionID,
			Roles:     claims.Roles,
		})

		c.Next()
	}
}

// AccountLookup loads a staff account by id
type AccountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
}

// RequireActiveAccount refuses sessions whose account was removed or
// deactivated after the token was issued
func RequireActiveAccount(accounts AccountLookup, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminCtx, exists := GetAdminContext(c)
		if !exists {
			reject(c, http.StatusUnauthorized, "unauthorized", "Admin context not found. Auth middleware may not be applied.", "MISSING_ADMIN_CONTEXT")
			return
		}

		admin, err := accounts.GetByID(c.Request.Context(), adminCtx.AdminID)
		if err != nil {
			logger.WithError(err).WithField("admin_id", adminCtx.AdminID).Error("Failed to load staff account")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to verify account",
				"code":    "ACCOUNT_CHECK_FAILED",
			})
			return
		}

		if admin == nil || !admin.IsActive {
			logger.WithField("admin_id", adminCtx.AdminID).Info("Session refused: account inactive")
			reject(c, http.StatusUnauthorized, "account_inactive", "Account is no longer active", "ACCOUNT_INACTIVE")
			return
		}

		c.Next()
	}
}

// RequireRole checks that the session carries one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminCtx, exists := GetAdminContext(c)
		if !exists {
			reject(c, http.StatusUnauthorized, "unauthorized", "Admin context not found. Auth middleware may not be applied.", "MISSING_ADMIN_CONTEXT")
			return
		}

		for _, required := range roles {
			for _, role := range adminCtx.Roles {
				if role == required {
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
		c.Abort()
	}
}

// GetAdminContext retrieves the admin context from Gin context
func GetAdminContext(c *gin.Context) (AdminContext, bool) {
	value, exists := c.Get(AdminContextKey)
	if !exists {
		return AdminContext{}, false
	}

	adminCtx, ok := value.(AdminContext)
	return adminCtx, ok
}

// MustGetAdminContext retrieves the admin context or panics (use only after AuthMiddleware)
func MustGetAdminContext(c *gin.Context) AdminContext {
	adminCtx, exists := GetAdminContext(c)
	if !exists {
		panic("admin context not found - ensure AuthMiddleware is applied")
	}
	return adminCtx
}

// WantsJSON reports whether the client asked for JSON rather than an HTML page
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// sessionToken returns the token and, when it is missing, the error code and message
func sessionToken(c *gin.Context, cookieName string) (string, string, string) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", "INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>"
		}
		return strings.TrimSpace(parts[1]), "", ""
	}

	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, "", ""
	}

	return "", "MISSING_AUTH", "Sign-in is required"
}

func reject(c *gin.Context, status int, errCode, message, code string) {
	if WantsJSON(c) {
		c.JSON(status, gin.H{
			"error":   errCode,
			"message": message,
			"code":    code,
		})
	} else {
		c.Redirect(http.StatusSeeOther, LoginPath)
	}
	c.Abort()
}
