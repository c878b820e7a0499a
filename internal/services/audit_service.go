package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/database"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/internal/utils"
)

// Audit actions
const (
	ActionAdminLogin            = "admin_login"
	ActionAdminLoginFailed      = "admin_login_failed"
	ActionAdminLogout           = "admin_logout"
	ActionScheduleCreateSuccess = "schedule_create_success"
	ActionScheduleCreateFailed  = "schedule_create_failed"
)

// Actor identifies the staff member and browser behind a request
type Actor struct {
	AdminID   uuid.UUID
	Email     string
	IPAddress string
	UserAgent string
}

// AuditService handles audit logging for staff actions
type AuditService struct {
	db      database.DB
	logger  *logrus.Logger
	enabled bool
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB, logger *logrus.Logger, enabled bool) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		enabled: enabled,
	}
}

// AuditEvent represents an event to be logged
type AuditEvent struct {
	AdminID    *uuid.UUID             // nil for failed sign-ins
	Action     string                 // one of the Action* constants
	EntityType string                 // admin_user, schedule
	EntityID   string                 // empty when the entity has no id yet
	IPAddress  string                 // client IP address
	UserAgent  string                 // client user agent
	Details    map[string]interface{} // stored as JSONB
}

// LogLogin logs a successful staff sign-in
func (s *AuditService) LogLogin(ctx context.Context, actor Actor, sessionID uuid.UUID) error {
	return s.logEvent(ctx, AuditEvent{
		AdminID:    &actor.AdminID,
		Action:     ActionAdminLogin,
		EntityType: "admin_user",
		EntityID:   actor.AdminID.String(),
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Details: map[string]interface{}{
			"email":       actor.Email,
			"session_id":  sessionID.String(),
			"device_info": utils.ParseUserAgent(actor.UserAgent),
		},
	})
}

// LogLoginFailed logs a rejected sign-in attempt
func (s *AuditService) LogLoginFailed(ctx context.Context, email, ipAddress, userAgent, reason string) error {
	return s.logEvent(ctx, AuditEvent{
		Action:     ActionAdminLoginFailed,
		EntityType: "admin_user",
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"email":       email,
			"reason":      reason,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogLogout logs a staff sign-out
func (s *AuditService) LogLogout(ctx context.Context, actor Actor) error {
	return s.logEvent(ctx, AuditEvent{
		AdminID:    &actor.AdminID,
		Action:     ActionAdminLogout,
		EntityType: "admin_user",
		EntityID:   actor.AdminID.String(),
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Details: map[string]interface{}{
			"device_info": utils.ParseUserAgent(actor.UserAgent),
		},
	})
}

// LogScheduleCreate logs the outcome of one schedule submission
func (s *AuditService) LogScheduleCreate(ctx context.Context, actor Actor, record models.ScheduleCreateRequest, scheduleID string, failure string) error {
	action := ActionScheduleCreateSuccess
	details := map[string]interface{}{
		"operator_name": record.Operator.Name,
		"bus_number":    record.Bus.BusNumber,
		"route_name":    record.Route.Name,
		"valid_from":    record.Schedule.ValidFrom,
		"journeys":      len(record.Schedule.Journeys),
		"stops":         len(record.Route.Stops),
	}
	if failure != "" {
		action = ActionScheduleCreateFailed
		details["failure_reason"] = failure
	}

	return s.logEvent(ctx, AuditEvent{
		AdminID:    &actor.AdminID,
		Action:     action,
		EntityType: "schedule",
		EntityID:   scheduleID,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Details:    details,
	})
}

// logEvent writes to the audit_logs table. Failures are logged and returned;
// callers never block the staff flow on them.
func (s *AuditService) logEvent(ctx context.Context, event AuditEvent) error {
	if s == nil || !s.enabled {
		return nil
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	var adminID uuid.NullUUID
	if event.AdminID != nil {
		adminID = uuid.NullUUID{UUID: *event.AdminID, Valid: true}
	}

	query := `
		INSERT INTO audit_logs (admin_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err = s.db.ExecContext(ctx, query,
		adminID,
		event.Action,
		nullString(event.EntityType),
		nullString(event.EntityID),
		nullString(event.IPAddress),
		nullString(event.UserAgent),
		details,
	)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"action": event.Action,
			"error":  err.Error(),
		}).Warn("Failed to write audit log")
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// GetRecentEvents retrieves recent audit events for an admin
func (s *AuditService) GetRecentEvents(ctx context.Context, adminID uuid.UUID, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, admin_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at
		FROM audit_logs
		WHERE admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	events := []models.AuditLog{}
	if err := s.db.SelectContext(ctx, &events, query, adminID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}

	return events, nil
}

// CleanupOldAuditLogs deletes audit logs older than the given age
func (s *AuditService) CleanupOldAuditLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM audit_logs WHERE created_at < $1`

	result, err := s.db.ExecContext(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
