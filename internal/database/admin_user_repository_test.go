package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminUserColumns = []string{
	"id", "email", "password_hash", "full_name", "is_active",
	"last_login_at", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return Wrap(sqlx.NewDb(db, "sqlmock")), mock
}

func TestAdminUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAdminUserRepository(db)

		id := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE LOWER\(email\) = \$1`).
			WithArgs("staff@smarttransit.lk").
			WillReturnRows(sqlmock.NewRows(adminUserColumns).AddRow(
				id.String(), "staff@smarttransit.lk", "$2a$12$hash", "Nimal Perera", true,
				nil, now, now,
			))

		user, err := repo.GetByEmail(ctx, "  Staff@SmartTransit.lk ")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Nimal Perera", user.FullName)
		assert.True(t, user.IsActive)
		assert.Nil(t, user.LastLoginAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAdminUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users`).
			WithArgs("ghost@smarttransit.lk").
			WillReturnRows(sqlmock.NewRows(adminUserColumns))

		user, err := repo.GetByEmail(ctx, "ghost@smarttransit.lk")
		assert.NoError(t, err)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAdminUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users`).
			WillReturnError(fmt.Errorf("connection reset"))

		user, err := repo.GetByEmail(ctx, "staff@smarttransit.lk")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Contains(t, err.Error(), "failed to get admin user by email")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdminUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminUserRepository(db)

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(adminUserColumns).AddRow(
			id.String(), "staff@smarttransit.lk", "$2a$12$hash", "Nimal Perera", false,
			now, now, now,
		))

	user, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsActive)
	require.NotNil(t, user.LastLoginAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUserRepository_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAdminUserRepository(db)

		mock.ExpectExec(`UPDATE admin_users SET last_login_at = NOW\(\)`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateLastLogin(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAdminUserRepository(db)

		mock.ExpectExec(`UPDATE admin_users`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateLastLogin(ctx, id)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "admin user not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
