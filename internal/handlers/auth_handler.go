package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/config"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/internal/services"
	"github.com/smarttransit/schedule-admin/internal/utils"
)

// AuthHandler handles staff sign-in and sign-out
type AuthHandler struct {
	authService *services.AdminAuthService
	rateLimiter *services.RateLimitService
	workspaces  *services.WorkspaceStore
	session     config.SessionConfig
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AdminAuthService,
	rateLimiter *services.RateLimitService,
	workspaces *services.WorkspaceStore,
	session config.SessionConfig,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rateLimiter: rateLimiter,
		workspaces:  workspaces,
		session:     session,
		logger:      logger,
	}
}

// ShowLogin renders the sign-in page
// GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	data := page(c, "Sign in")
	data["Error"] = ""
	data["Email"] = ""
	c.HTML(http.StatusOK, "login.tmpl", data)
}

// Login checks the credentials and starts a session
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, http.StatusBadRequest, "validation_error", "Please enter a valid email and password", "INVALID_REQUEST", req.Email)
		return
	}

	ip := utils.GetRealIP(c)
	if err := h.rateLimiter.CheckLoginRateLimit(req.Email, ip); err != nil {
		var rateErr *services.RateLimitError
		if errors.As(err, &rateErr) {
			h.logger.WithFields(logrus.Fields{
				"email": req.Email,
				"ip":    ip,
				"type":  rateErr.Type,
			}).Warn("Admin login rate limited")

			c.Header("Retry-After", strconv.Itoa(int(time.Until(rateErr.RetryAfter).Seconds())+1))
			h.loginFailed(c, http.StatusTooManyRequests, "rate_limit_exceeded", rateErr.Message, "RATE_LIMIT_EXCEEDED", req.Email)
			return
		}
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, ip, utils.GetUserAgent(c))
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"ip":    ip,
			"error": err.Error(),
		}).Warn("Admin login failed")

		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			h.rateLimiter.RecordFailedLogin(req.Email, ip)
			h.loginFailed(c, http.StatusUnauthorized, "unauthorized", "Invalid email or password", "INVALID_CREDENTIALS", req.Email)
		case errors.Is(err, services.ErrAccountInactive):
			h.loginFailed(c, http.StatusForbidden, "forbidden", "This account has been deactivated", "ACCOUNT_INACTIVE", req.Email)
		default:
			h.loginFailed(c, http.StatusInternalServerError, "internal_error", "Sign-in is unavailable. Please try again later.", "LOGIN_FAILED", req.Email)
		}
		return
	}

	h.rateLimiter.ResetLogin(req.Email)

	h.logger.WithFields(logrus.Fields{
		"admin_id":   session.AdminUser.ID,
		"session_id": session.SessionID,
	}).Info("Admin login successful")

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, session.Token, int(time.Until(session.ExpiresAt).Seconds()), "/", "", h.session.CookieSecure, true)

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, session)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout ends the session and discards its workspace
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	adminCtx := middleware.MustGetAdminContext(c)

	h.authService.Logout(c.Request.Context(), actorFrom(c))
	h.workspaces.Drop(adminCtx.SessionID.String())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.CookieSecure, true)

	h.logger.WithField("admin_id", adminCtx.AdminID).Info("Admin logged out")

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
		return
	}
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AuthHandler) loginFailed(c *gin.Context, status int, errCode, message, code, email string) {
	if middleware.WantsJSON(c) {
		respondError(c, status, errCode, message, code)
		return
	}

	data := page(c, "Sign in")
	data["Error"] = message
	data["Email"] = email
	c.HTML(status, "login.tmpl", data)
}
