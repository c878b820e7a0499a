package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/services"
)

// Handlers groups the portal's HTTP handlers
type Handlers struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Form      *ScheduleFormHandler
	Schedules *ScheduleListHandler
}

// Register mounts the portal routes. Everything except sign-in and the
// health check runs behind the auth chain and requires the staff role.
func (h Handlers) Register(router gin.IRouter, auth ...gin.HandlerFunc) {
	router.GET("/health", h.Dashboard.Health)
	router.GET("/login", h.Auth.ShowLogin)
	router.POST("/login", h.Auth.Login)

	portal := router.Group("/")
	portal.Use(auth...)
	portal.Use(middleware.RequireRole(services.AdminStaffRole))
	{
		portal.POST("/logout", h.Auth.Logout)
		portal.GET("/", h.Dashboard.Show)

		draft := portal.Group("/schedules/new")
		{
			draft.GET("", h.Form.Show)
			draft.POST("/reset", h.Form.Reset)
			draft.POST("/field", h.Form.SetField)
			draft.POST("/journeys/:index/field", h.Form.SetJourneyField)
			draft.POST("/journeys/:index/days/:day", h.Form.ToggleDay)
			draft.POST("/stops", h.Form.AddStop)
			draft.POST("/stops/:index/field", h.Form.SetStopField)
			draft.POST("/stops/:index/delete", h.Form.RemoveStop)
			draft.POST("/location", h.Form.SetLocation)
			draft.POST("/submit", h.Form.Submit)
		}

		portal.GET("/schedules", h.Schedules.List)
		portal.GET("/schedules/:id", h.Schedules.Detail)
		portal.GET("/schedules/:id/export.pdf", h.Schedules.ExportPDF)
	}
}
