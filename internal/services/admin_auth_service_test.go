package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminStore struct {
	users       map[string]*models.AdminUser
	err         error
	lastLoginID uuid.UUID
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

func (f *fakeAdminStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	f.lastLoginID = id
	return nil
}

func newAuthFixture(t *testing.T) (*AdminAuthService, *fakeAdminStore, *jwt.Service, sqlmock.Sqlmock) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &fakeAdminStore{users: map[string]*models.AdminUser{
		"staff@smarttransit.lk": {ID: uuid.New(), Email: "staff@smarttransit.lk", PasswordHash: string(hash), IsActive: true},
		"gone@smarttransit.lk":  {ID: uuid.New(), Email: "gone@smarttransit.lk", PasswordHash: string(hash), IsActive: false},
	}}

	db, mock := newMockDB(t)
	jwtService := jwt.NewService("test-session-secret-key-for-testing-purposes", time.Hour)
	logger := newTestLogger()
	service := NewAdminAuthService(store, jwtService, NewAuditService(db, logger, true), logger)
	return service, store, jwtService, mock
}

func TestLogin_Success(t *testing.T) {
	service, store, jwtService, mock := newAuthFixture(t)
	admin := store.users["staff@smarttransit.lk"]

	mock.ExpectExec(`INSERT INTO audit_logs`).
		WithArgs(sqlmock.AnyArg(), ActionAdminLogin, "admin_user", admin.ID.String(),
			"203.0.113.7", "Mozilla/5.0", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	session, err := service.Login(context.Background(), " Staff@SmartTransit.lk ", "correct-horse", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.Equal(t, admin, session.AdminUser)
	assert.Equal(t, admin.ID, store.lastLoginID)

	claims, err := jwtService.ValidateSessionToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, session.SessionID, claims.SessionID)
	assert.True(t, claims.HasRole("admin"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		reason   string
		expected error
	}{
		{"Unknown email", "nobody@smarttransit.lk", "correct-horse", "unknown_email", ErrInvalidCredentials},
		{"Wrong password", "staff@smarttransit.lk", "wrong-horse", "wrong_password", ErrInvalidCredentials},
		{"Inactive", "gone@smarttransit.lk", "correct-horse", "inactive", ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store, _, mock := newAuthFixture(t)

			mock.ExpectExec(`INSERT INTO audit_logs`).
				WithArgs(nil, ActionAdminLoginFailed, "admin_user", nil, "203.0.113.7", "Mozilla/5.0", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))

			session, err := service.Login(context.Background(), tt.email, tt.password, "203.0.113.7", "Mozilla/5.0")
			assert.Nil(t, session)
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, uuid.Nil, store.lastLoginID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLogin_StoreError(t *testing.T) {
	service, store, _, _ := newAuthFixture(t)
	store.err = errors.New("connection reset")

	_, err := service.Login(context.Background(), "staff@smarttransit.lk", "correct-horse", "", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")))
}
