package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/metrics"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/scheduleapi"
)

// ListingErrorMessage is shown when a page of schedules cannot be loaded
const ListingErrorMessage = "Failed to fetch schedules. Please try again later."

// ErrScheduleNotOnPage is returned when a detail is requested for a schedule
// that is not part of the currently loaded page
var ErrScheduleNotOnPage = errors.New("schedule is not on the current page")

// ListingView is one staff session's schedule table state
type ListingView struct {
	mu        sync.Mutex
	seq       uint64
	page      int
	limit     int
	total     int
	loading   bool
	loaded    bool
	errorText string
	schedules []models.Schedule
}

// ListingSnapshot is a consistent copy of a ListingView for rendering
type ListingSnapshot struct {
	Pagination Pagination        `json:"pagination"`
	Loading    bool              `json:"loading"`
	Loaded     bool              `json:"loaded"`
	Error      string            `json:"error,omitempty"`
	Schedules  []models.Schedule `json:"schedules"`
}

// NewListingView creates an empty view on page 1
func NewListingView() *ListingView {
	return &ListingView{page: 1}
}

// Snapshot returns the current state
func (v *ListingView) Snapshot() ListingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return ListingSnapshot{
		Pagination: Pagination{Page: v.page, Limit: v.limit, Total: v.total},
		Loading:    v.loading,
		Loaded:     v.loaded,
		Error:      v.errorText,
		Schedules:  v.schedules,
	}
}

// begin records the requested page and returns the request's sequence number
func (v *ListingView) begin(page, limit int) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	v.page = page
	v.limit = limit
	v.loading = true
	return v.seq
}

// apply stores a response if it belongs to the most recent request and
// reports whether it did. A failed request keeps the last good rows.
func (v *ListingView) apply(seq uint64, resp *models.ScheduleListResponse, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		return false
	}

	v.loading = false
	if err != nil {
		v.errorText = ListingErrorMessage
		return true
	}

	v.loaded = true
	v.errorText = ""
	v.total = resp.Total
	v.schedules = resp.Schedules
	if v.schedules == nil {
		v.schedules = []models.Schedule{}
	}
	return true
}

// find returns the loaded schedule with the given id
func (v *ListingView) find(scheduleID string) (models.Schedule, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, s := range v.schedules {
		if s.ScheduleID == scheduleID {
			return s, true
		}
	}
	return models.Schedule{}, false
}

// ListingService loads pages of schedules from the backend
type ListingService struct {
	client       scheduleapi.Client
	metrics      *metrics.Collector
	logger       *logrus.Logger
	defaultLimit int
	maxLimit     int
}

// NewListingService creates a new listing service
func NewListingService(client scheduleapi.Client, collector *metrics.Collector, logger *logrus.Logger, defaultLimit, maxLimit int) *ListingService {
	return &ListingService{
		client:       client,
		metrics:      collector,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Normalize clamps a requested page and limit to usable values
func (s *ListingService) Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return page, limit
}

// Fetch loads one page into view. Each call issues a new request; when
// calls overlap only the most recently issued one updates the view.
func (s *ListingService) Fetch(ctx context.Context, view *ListingView, page, limit int) ListingSnapshot {
	page, limit = s.Normalize(page, limit)
	seq := view.begin(page, limit)

	resp, err := s.client.ListSchedules(ctx, limit, (page-1)*limit)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"page":  page,
			"limit": limit,
			"error": err.Error(),
		}).Error("Failed to fetch schedules")
	}

	if !view.apply(seq, resp, err) {
		s.metrics.ObserveStaleListing()
		s.logger.WithFields(logrus.Fields{
			"page": page,
			"seq":  seq,
		}).Debug("Discarded stale schedule page")
	}

	return view.Snapshot()
}

// Detail builds the detail panel for a schedule on the view's current page
func (s *ListingService) Detail(view *ListingView, scheduleID string) (ScheduleDetail, error) {
	schedule, ok := view.find(scheduleID)
	if !ok {
		return ScheduleDetail{}, ErrScheduleNotOnPage
	}
	return BuildScheduleDetail(schedule), nil
}

// Total asks the backend for the number of schedules
func (s *ListingService) Total(ctx context.Context) (int, error) {
	resp, err := s.client.ListSchedules(ctx, 1, 0)
	if err != nil {
		return 0, err
	}
	return resp.Total, nil
}
