package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/database"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/services"
)

// DashboardHandler serves the landing page and health check
type DashboardHandler struct {
	listing *services.ListingService
	db      database.DB
	version string
	logger  *logrus.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(listing *services.ListingService, db database.DB, version string, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		listing: listing,
		db:      db,
		version: version,
		logger:  logger,
	}
}

// Show renders the dashboard with the backend's schedule total
// GET /
func (h *DashboardHandler) Show(c *gin.Context) {
	total := "-"
	count, err := h.listing.Total(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load schedule total")
	} else {
		total = strconv.Itoa(count)
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"total_schedules": total})
		return
	}

	data := page(c, "Dashboard")
	data["Total"] = total
	c.HTML(http.StatusOK, "dashboard.tmpl", data)
}

// Health reports liveness and database connectivity
// GET /health
func (h *DashboardHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unhealthy",
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "healthy",
		"version":   h.version,
		"timestamp": time.Now().Unix(),
	})
}
