package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/form"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/services"
	"github.com/smarttransit/schedule-admin/pkg/geo"
)

const scheduleFormPath = "/schedules/new"

// FieldRequest sets one field of the draft
type FieldRequest struct {
	Section    string   `form:"section" json:"section"`
	Subsection string   `form:"subsection" json:"subsection"`
	Field      string   `form:"field" json:"field" binding:"required"`
	Value      string   `form:"value" json:"value"`
	Values     []string `form:"values" json:"values"`
}

// LocationRequest sets the coordinates of a stop. Either coordinate may be
// omitted to keep its current value.
type LocationRequest struct {
	Kind      string `form:"kind" json:"kind" binding:"required"`
	Index     *int   `form:"index" json:"index"`
	Latitude  string `form:"latitude" json:"latitude"`
	Longitude string `form:"longitude" json:"longitude"`
}

// ScheduleFormHandler serves the schedule creation form
type ScheduleFormHandler struct {
	workspaces  *services.WorkspaceStore
	submissions *services.SubmissionService
	logger      *logrus.Logger
}

// NewScheduleFormHandler creates a new schedule form handler
func NewScheduleFormHandler(workspaces *services.WorkspaceStore, submissions *services.SubmissionService, logger *logrus.Logger) *ScheduleFormHandler {
	return &ScheduleFormHandler{
		workspaces:  workspaces,
		submissions: submissions,
		logger:      logger,
	}
}

// Show renders the current draft
// GET /schedules/new
func (h *ScheduleFormHandler) Show(c *gin.Context) {
	h.render(c, http.StatusOK, workspaceFor(c, h.workspaces).Form, "")
}

// Reset discards the draft
// POST /schedules/new/reset
func (h *ScheduleFormHandler) Reset(c *gin.Context) {
	session := workspaceFor(c, h.workspaces).Form
	session.Reset()
	h.mutated(c, session)
}

// SetField updates an operator, bus, route or schedule field, or a field of
// the source or destination stop when a subsection is given
// POST /schedules/new/field
func (h *ScheduleFormHandler) SetField(c *gin.Context) {
	var req FieldRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, "Invalid request body", "INVALID_REQUEST")
		return
	}

	section := form.Section(req.Section)
	h.apply(c, func(d form.Draft) (form.Draft, error) {
		if req.Subsection != "" {
			return form.SetNestedField(d, section, form.Subsection(req.Subsection), req.Field, req.Value)
		}
		return form.SetField(d, section, req.Field, req.Value)
	})
}

// SetJourneyField updates a field of one journey
// POST /schedules/new/journeys/:index/field
func (h *ScheduleFormHandler) SetJourneyField(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}

	var req FieldRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, "Invalid request body", "INVALID_REQUEST")
		return
	}
	if !form.IsJourneyField(req.Field) {
		h.badRequest(c, "Unknown journey field: "+req.Field, "UNKNOWN_FIELD")
		return
	}

	var value any = req.Value
	if req.Field == form.JourneyFieldDaysOfWeek {
		value = req.Values
		if value == nil {
			value = []string{}
		}
	}

	h.apply(c, func(d form.Draft) (form.Draft, error) {
		return form.SetJourneyField(d, index, req.Field, value)
	})
}

// ToggleDay adds or removes a day of one journey
// POST /schedules/new/journeys/:index/days/:day
func (h *ScheduleFormHandler) ToggleDay(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}

	day := c.Param("day")
	h.apply(c, func(d form.Draft) (form.Draft, error) {
		return form.ToggleDay(d, index, day)
	})
}

// AddStop appends a blank intermediate stop
// POST /schedules/new/stops
func (h *ScheduleFormHandler) AddStop(c *gin.Context) {
	h.apply(c, func(d form.Draft) (form.Draft, error) {
		return form.AddIntermediateStop(d), nil
	})
}

// SetStopField updates the name or city of one intermediate stop
// POST /schedules/new/stops/:index/field
func (h *ScheduleFormHandler) SetStopField(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}

	var req FieldRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, "Invalid request body", "INVALID_REQUEST")
		return
	}

	h.apply(c, func(d form.Draft) (form.Draft, error) {
		return form.SetStopField(d, index, req.Field, req.Value)
	})
}

// RemoveStop deletes one intermediate stop
// POST /schedules/new/stops/:index/delete
func (h *ScheduleFormHandler) RemoveStop(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}

	h.apply(c, func(d form.Draft) (form.Draft, error) {
		return form.RemoveStop(d, index)
	})
}

// SetLocation updates the latitude and/or longitude of a stop
// POST /schedules/new/location
func (h *ScheduleFormHandler) SetLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, "Invalid request body", "INVALID_REQUEST")
		return
	}

	lat, hasLat, err := parseCoordinate(req.Latitude)
	if err != nil {
		h.badRequest(c, "Latitude must be a finite number", "INVALID_VALUE")
		return
	}
	lng, hasLng, err := parseCoordinate(req.Longitude)
	if err != nil {
		h.badRequest(c, "Longitude must be a finite number", "INVALID_VALUE")
		return
	}

	kind := form.LocationKind(req.Kind)
	h.apply(c, func(d form.Draft) (form.Draft, error) {
		var err error
		if hasLat {
			if d, err = form.SetLatitude(d, kind, req.Index, lat); err != nil {
				return d, err
			}
		}
		if hasLng {
			d, err = form.SetLongitude(d, kind, req.Index, lng)
		}
		return d, err
	})
}

// Submit validates the draft and sends it to the schedule service
// POST /schedules/new/submit
func (h *ScheduleFormHandler) Submit(c *gin.Context) {
	session := workspaceFor(c, h.workspaces).Form

	feedback, err := h.submissions.Submit(c.Request.Context(), session, actorFrom(c))
	if errors.Is(err, services.ErrSubmissionInFlight) {
		if middleware.WantsJSON(c) {
			respondError(c, http.StatusConflict, "conflict", err.Error(), "SUBMISSION_IN_FLIGHT")
			return
		}
		c.Redirect(http.StatusSeeOther, scheduleFormPath)
		return
	}

	if !middleware.WantsJSON(c) {
		c.Redirect(http.StatusSeeOther, scheduleFormPath)
		return
	}

	status := http.StatusCreated
	if feedback.Type == services.FeedbackError {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, session.Snapshot())
}

// apply runs one mutator against the session's draft and answers the client
func (h *ScheduleFormHandler) apply(c *gin.Context, mutate func(form.Draft) (form.Draft, error)) {
	session := workspaceFor(c, h.workspaces).Form

	if err := session.Apply(mutate); err != nil {
		status, code := mutationStatus(err)
		h.logger.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"code":  code,
			"error": err.Error(),
		}).Debug("Rejected form update")

		if middleware.WantsJSON(c) {
			respondError(c, status, "invalid_update", err.Error(), code)
			return
		}
		h.render(c, status, session, err.Error())
		return
	}

	h.mutated(c, session)
}

func (h *ScheduleFormHandler) mutated(c *gin.Context, session *services.FormSession) {
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, session.Snapshot())
		return
	}
	c.Redirect(http.StatusSeeOther, scheduleFormPath)
}

func (h *ScheduleFormHandler) render(c *gin.Context, status int, session *services.FormSession, errText string) {
	snapshot := session.Snapshot()
	if middleware.WantsJSON(c) {
		c.JSON(status, snapshot)
		return
	}

	data := page(c, "Add Schedule")
	data["Form"] = snapshot
	data["Error"] = errText
	c.HTML(status, "schedule_form.tmpl", data)
}

func (h *ScheduleFormHandler) badRequest(c *gin.Context, message, code string) {
	if middleware.WantsJSON(c) {
		respondError(c, http.StatusBadRequest, "validation_error", message, code)
		return
	}
	h.render(c, http.StatusBadRequest, workspaceFor(c, h.workspaces).Form, message)
}

func (h *ScheduleFormHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.badRequest(c, "Index must be a number", "INVALID_INDEX")
		return 0, false
	}
	return index, true
}

func mutationStatus(err error) (int, string) {
	switch {
	case errors.Is(err, form.ErrIndexOutOfRange):
		return http.StatusNotFound, "INDEX_OUT_OF_RANGE"
	case errors.Is(err, form.ErrIndexRequired):
		return http.StatusBadRequest, "INDEX_REQUIRED"
	case errors.Is(err, form.ErrUnknownField):
		return http.StatusBadRequest, "UNKNOWN_FIELD"
	case errors.Is(err, form.ErrUnknownDay):
		return http.StatusBadRequest, "UNKNOWN_DAY"
	case errors.Is(err, form.ErrInvalidValue):
		return http.StatusBadRequest, "INVALID_VALUE"
	}
	return http.StatusBadRequest, "INVALID_UPDATE"
}

// parseCoordinate reports whether a coordinate was given and its value
func parseCoordinate(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if !geo.IsFinite(v) {
		return 0, false, form.ErrInvalidValue
	}
	return v, true, nil
}
