package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/services"
)

// ScheduleListHandler serves the schedule table, detail panel and PDF export
type ScheduleListHandler struct {
	workspaces *services.WorkspaceStore
	listing    *services.ListingService
	export     *services.ExportService
	logger     *logrus.Logger
}

// NewScheduleListHandler creates a new schedule list handler
func NewScheduleListHandler(
	workspaces *services.WorkspaceStore,
	listing *services.ListingService,
	export *services.ExportService,
	logger *logrus.Logger,
) *ScheduleListHandler {
	return &ScheduleListHandler{
		workspaces: workspaces,
		listing:    listing,
		export:     export,
		logger:     logger,
	}
}

// List loads one page of schedules
// GET /schedules?page=&limit=
func (h *ScheduleListHandler) List(c *gin.Context) {
	view := workspaceFor(c, h.workspaces).Listing

	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	snapshot := h.listing.Fetch(c.Request.Context(), view, pageNum, limit)

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"schedules":   snapshot.Schedules,
			"error":       snapshot.Error,
			"pagination":  snapshot.Pagination,
			"total_pages": snapshot.Pagination.TotalPages(),
			"summary":     snapshot.Pagination.Summary(),
		})
		return
	}

	data := page(c, "Schedules")
	data["Listing"] = snapshot
	c.HTML(http.StatusOK, "schedule_list.tmpl", data)
}

// Detail shows stops, timings and journeys of a schedule on the current page
// GET /schedules/:id
func (h *ScheduleListHandler) Detail(c *gin.Context) {
	detail, ok := h.detail(c)
	if !ok {
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, detail)
		return
	}

	data := page(c, "Schedule Details")
	data["Detail"] = detail
	c.HTML(http.StatusOK, "schedule_detail.tmpl", data)
}

// ExportPDF downloads the detail panel as a PDF
// GET /schedules/:id/export.pdf
func (h *ScheduleListHandler) ExportPDF(c *gin.Context) {
	detail, ok := h.detail(c)
	if !ok {
		return
	}

	content, filename, err := h.export.ScheduleDetailPDF(detail)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"schedule_id": detail.Schedule.ScheduleID,
			"error":       err.Error(),
		}).Error("Failed to render schedule PDF")
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to export schedule", "EXPORT_FAILED")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *ScheduleListHandler) detail(c *gin.Context) (services.ScheduleDetail, bool) {
	view := workspaceFor(c, h.workspaces).Listing

	detail, err := h.listing.Detail(view, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrScheduleNotOnPage) {
			if middleware.WantsJSON(c) {
				respondError(c, http.StatusNotFound, "not_found", "Schedule is not on the current page", "SCHEDULE_NOT_FOUND")
			} else {
				c.Redirect(http.StatusSeeOther, "/schedules")
			}
			return services.ScheduleDetail{}, false
		}
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error(), "DETAIL_FAILED")
		return services.ScheduleDetail{}, false
	}
	return detail, true
}
