package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive is returned for a deactivated staff account
	ErrAccountInactive = errors.New("account is inactive")
)

// AdminStaffRole is the only role the portal issues
const AdminStaffRole = "admin"

// AdminUserStore is the part of the admin user repository the auth service needs
type AdminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// AdminAuthService handles staff sign-in
type AdminAuthService struct {
	adminRepo  AdminUserStore
	jwtService *jwt.Service
	audit      *AuditService
	logger     *logrus.Logger
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(
	adminRepo AdminUserStore,
	jwtService *jwt.Service,
	audit *AuditService,
	logger *logrus.Logger,
) *AdminAuthService {
	return &AdminAuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		audit:      audit,
		logger:     logger,
	}
}

// Login authenticates a staff member and issues a session token
func (s *AdminAuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*models.AdminSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}

	if admin == nil {
		s.audit.LogLoginFailed(ctx, email, ipAddress, userAgent, "unknown_email")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.audit.LogLoginFailed(ctx, email, ipAddress, userAgent, "wrong_password")
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		s.audit.LogLoginFailed(ctx, email, ipAddress, userAgent, "inactive")
		return nil, ErrAccountInactive
	}

	sessionID := uuid.New()
	token, expiresAt, err := s.jwtService.GenerateSessionToken(admin.ID, admin.Email, sessionID, []string{AdminStaffRole})
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"admin_id": admin.ID,
			"error":    err.Error(),
		}).Warn("Failed to update last login")
	}

	s.audit.LogLogin(ctx, Actor{
		AdminID:   admin.ID,
		Email:     admin.Email,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}, sessionID)

	return &models.AdminSession{
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		AdminUser: admin,
	}, nil
}

// Logout records the end of a staff session
func (s *AdminAuthService) Logout(ctx context.Context, actor Actor) {
	s.audit.LogLogout(ctx, actor)
}

// HashPassword hashes a staff password with the given bcrypt cost
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
