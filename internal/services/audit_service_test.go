package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_Disabled(t *testing.T) {
	db, mock := newMockDB(t)
	audit := NewAuditService(db, newTestLogger(), false)

	assert.NoError(t, audit.LogLogout(context.Background(), testActor))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogScheduleCreateFailed(t *testing.T) {
	db, mock := newMockDB(t)
	audit := NewAuditService(db, newTestLogger(), true)

	mock.ExpectExec(`INSERT INTO audit_logs`).
		WithArgs(testActor.AdminID.String(), ActionScheduleCreateFailed, "schedule", nil,
			"203.0.113.7", "test", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := audit.LogScheduleCreate(context.Background(), testActor, models.ScheduleCreateRequest{}, "", "route conflict")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_WriteError(t *testing.T) {
	db, mock := newMockDB(t)
	audit := NewAuditService(db, newTestLogger(), true)

	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnError(errors.New("disk full"))

	err := audit.LogLogout(context.Background(), testActor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to log audit event")
}

func TestAuditService_GetRecentEvents(t *testing.T) {
	db, mock := newMockDB(t)
	audit := NewAuditService(db, newTestLogger(), true)

	adminID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM audit_logs WHERE admin_id = \$1`).
		WithArgs(adminID, 5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "admin_id", "action", "entity_type", "entity_id",
			"ip_address", "user_agent", "details", "created_at",
		}).
			AddRow(2, adminID.String(), ActionScheduleCreateSuccess, "schedule", "sch-1", "203.0.113.7", "test", []byte(`{}`), now).
			AddRow(1, adminID.String(), ActionAdminLogin, "admin_user", adminID.String(), nil, nil, []byte(`{}`), now))

	events, err := audit.GetRecentEvents(context.Background(), adminID, 5)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionScheduleCreateSuccess, events[0].Action)
	assert.Equal(t, "sch-1", events[0].EntityID.String)
	assert.True(t, events[0].AdminID.Valid)
	assert.False(t, events[1].IPAddress.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_CleanupOldAuditLogs(t *testing.T) {
	db, mock := newMockDB(t)
	audit := NewAuditService(db, newTestLogger(), true)

	mock.ExpectExec(`DELETE FROM audit_logs WHERE created_at < \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 17))

	deleted, err := audit.CleanupOldAuditLogs(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(17), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
