package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/form"
	"github.com/smarttransit/schedule-admin/internal/metrics"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/scheduleapi"
)

// ErrSubmissionInFlight is returned when a draft is submitted while its previous submission is pending
var ErrSubmissionInFlight = errors.New("a schedule submission is already in progress")

// errEmptyBulkResponse is reported when the backend accepts the request but returns no schedule
var errEmptyBulkResponse = errors.New("schedule service returned no schedules")

// SubmissionService sends schedule drafts to the backend
type SubmissionService struct {
	client  scheduleapi.Client
	audit   *AuditService
	metrics *metrics.Collector
	logger  *logrus.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(client scheduleapi.Client, audit *AuditService, collector *metrics.Collector, logger *logrus.Logger) *SubmissionService {
	return &SubmissionService{
		client:  client,
		audit:   audit,
		metrics: collector,
		logger:  logger,
	}
}

// Submit validates the session's draft and posts it to /schedule/bulk.
// Only one submission per session runs at a time; a concurrent call returns
// ErrSubmissionInFlight without contacting the backend. On success the draft
// is replaced by a fresh one; on failure it is kept for correction.
func (s *SubmissionService) Submit(ctx context.Context, session *FormSession, actor Actor) (Feedback, error) {
	draft, ok := session.begin()
	if !ok {
		s.metrics.ObserveSubmission(metrics.SubmissionInFlight)
		return Feedback{}, ErrSubmissionInFlight
	}

	log := s.logger.WithField("admin_id", actor.AdminID)

	if err := form.Validate(draft); err != nil {
		var fieldErrors form.ValidationErrors
		errors.As(err, &fieldErrors)

		feedback := errorFeedback(err.Error())
		session.finish(feedback, fieldErrors, false)
		s.metrics.ObserveSubmission(metrics.SubmissionInvalid)
		log.WithField("fields", len(fieldErrors)).Info("Schedule draft failed validation")
		return feedback, nil
	}

	record := form.Compose(draft)
	scheduleID, err := s.create(ctx, record)
	if err != nil {
		message := scheduleapi.UserMessage(err)
		feedback := errorFeedback(message)
		session.finish(feedback, nil, false)

		s.metrics.ObserveSubmission(metrics.SubmissionError)
		s.audit.LogScheduleCreate(ctx, actor, record, "", message)
		log.WithFields(logrus.Fields{
			"route_name": record.Route.Name,
			"error":      err.Error(),
		}).Error("Failed to create schedule")
		return feedback, nil
	}

	feedback := Feedback{
		Type: FeedbackSuccess,
		Text: fmt.Sprintf("Schedule created successfully! Schedule ID: %s", scheduleID),
	}
	session.finish(feedback, nil, true)

	s.metrics.ObserveSubmission(metrics.SubmissionSuccess)
	s.audit.LogScheduleCreate(ctx, actor, record, scheduleID, "")
	log.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"route_name":  record.Route.Name,
		"stops":       len(record.Route.Stops),
	}).Info("Schedule created")
	return feedback, nil
}

func (s *SubmissionService) create(ctx context.Context, record models.ScheduleCreateRequest) (string, error) {
	resp, err := s.client.CreateSchedules(ctx, []models.ScheduleCreateRequest{record})
	if err != nil {
		return "", err
	}
	if len(resp.Schedules) == 0 {
		return "", errEmptyBulkResponse
	}
	return resp.Schedules[0].ScheduleID, nil
}

func errorFeedback(message string) Feedback {
	return Feedback{Type: FeedbackError, Text: "Error: " + message}
}
