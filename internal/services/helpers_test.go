package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/database"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return database.Wrap(sqlx.NewDb(db, "sqlmock")), mock
}

// fakeBackend is an in-memory scheduleapi.Client
type fakeBackend struct {
	mu sync.Mutex

	createCalls [][]models.ScheduleCreateRequest
	createResp  *models.BulkCreateResponse
	createErr   error
	// createGate, when set, blocks CreateSchedules until it is closed
	createGate    chan struct{}
	createStarted chan struct{}

	listCalls []listCall
	listFn    func(call int, limit, offset int) (*models.ScheduleListResponse, error)
}

type listCall struct {
	limit, offset int
}

func (f *fakeBackend) CreateSchedules(ctx context.Context, records []models.ScheduleCreateRequest) (*models.BulkCreateResponse, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, records)
	gate, started := f.createGate, f.createStarted
	resp, err := f.createResp, f.createErr
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	return resp, err
}

func (f *fakeBackend) ListSchedules(ctx context.Context, limit, offset int) (*models.ScheduleListResponse, error) {
	f.mu.Lock()
	call := len(f.listCalls)
	f.listCalls = append(f.listCalls, listCall{limit, offset})
	fn := f.listFn
	f.mu.Unlock()

	return fn(call, limit, offset)
}

func (f *fakeBackend) creates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createCalls)
}

func strPtr(s string) *string { return &s }
