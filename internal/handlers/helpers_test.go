package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/config"
	"github.com/smarttransit/schedule-admin/internal/database"
	"github.com/smarttransit/schedule-admin/internal/metrics"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/internal/services"
	"github.com/smarttransit/schedule-admin/pkg/jwt"
	"github.com/smarttransit/schedule-admin/pkg/scheduleapi"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCookieName = "schedule_admin_session"

// stubBackend is an in-memory schedule service
type stubBackend struct {
	mu        sync.Mutex
	created   [][]models.ScheduleCreateRequest
	createErr error
	list      *models.ScheduleListResponse
	listErr   error
}

func (b *stubBackend) CreateSchedules(ctx context.Context, records []models.ScheduleCreateRequest) (*models.BulkCreateResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.created = append(b.created, records)
	if b.createErr != nil {
		return nil, b.createErr
	}
	return &models.BulkCreateResponse{Schedules: []models.CreatedSchedule{{ScheduleID: "sch-42"}}}, nil
}

func (b *stubBackend) ListSchedules(ctx context.Context, limit, offset int) (*models.ScheduleListResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listErr != nil {
		return nil, b.listErr
	}
	if b.list == nil {
		return &models.ScheduleListResponse{Limit: limit, Offset: offset}, nil
	}
	return b.list, nil
}

var _ scheduleapi.Client = (*stubBackend)(nil)

type stubAdminStore struct {
	users map[string]*models.AdminUser
}

func (s *stubAdminStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return s.users[email], nil
}

func (s *stubAdminStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (s *stubAdminStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return nil
}

type testEnv struct {
	router     *gin.Engine
	backend    *stubBackend
	jwt        *jwt.Service
	workspaces *services.WorkspaceStore
	collector  *metrics.Collector
	mock       sqlmock.Sqlmock
	admin      *models.AdminUser
	token      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db := database.Wrap(sqlx.NewDb(sqlDB, "sqlmock"))

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.AdminUser{ID: uuid.New(), Email: "staff@smarttransit.lk", PasswordHash: string(hash), IsActive: true}
	store := &stubAdminStore{users: map[string]*models.AdminUser{admin.Email: admin}}

	collector := metrics.NewCollector()
	backend := &stubBackend{}
	jwtService := jwt.NewService("test-session-secret-key-for-handlers", time.Hour)
	audit := services.NewAuditService(db, logger, false)
	workspaces := services.NewWorkspaceStore(time.Hour, time.Hour, collector)
	listing := services.NewListingService(backend, collector, logger, 10, 100)
	session := config.SessionConfig{CookieName: testCookieName}

	h := Handlers{
		Auth: NewAuthHandler(
			services.NewAdminAuthService(store, jwtService, audit, logger),
			services.NewRateLimitService(config.RateLimitConfig{MaxEmailAttempts: 3, EmailWindow: time.Minute, MaxIPAttempts: 10, IPWindow: time.Minute}),
			workspaces, session, logger,
		),
		Dashboard: NewDashboardHandler(listing, db, "test", logger),
		Form:      NewScheduleFormHandler(workspaces, services.NewSubmissionService(backend, audit, collector, logger), logger),
		Schedules: NewScheduleListHandler(workspaces, listing, services.NewExportService(), logger),
	}

	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	h.Register(router,
		middleware.AuthMiddleware(jwtService, testCookieName, logger),
		middleware.RequireActiveAccount(store, logger),
	)

	token, _, err := jwtService.GenerateSessionToken(admin.ID, admin.Email, uuid.New(), []string{services.AdminStaffRole})
	require.NoError(t, err)

	return &testEnv{
		router:     router,
		backend:    backend,
		jwt:        jwtService,
		workspaces: workspaces,
		collector:  collector,
		mock:       mock,
		admin:      admin,
		token:      token,
	}
}

// do sends a request as the signed-in browser
func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: e.token})

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doJSON sends a request as a JSON client of the same session
func (e *testEnv) doJSON(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: e.token})

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) snapshot(t *testing.T) services.FormSnapshot {
	t.Helper()
	w := e.doJSON(http.MethodGet, "/schedules/new", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot services.FormSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	return snapshot
}
