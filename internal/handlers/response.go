package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/services"
	"github.com/smarttransit/schedule-admin/internal/utils"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func respondError(c *gin.Context, status int, errCode, message, code string) {
	c.JSON(status, ErrorResponse{
		Error:   errCode,
		Message: message,
		Code:    code,
	})
}

// actorFrom builds the audit actor of an authenticated request
func actorFrom(c *gin.Context) services.Actor {
	adminCtx := middleware.MustGetAdminContext(c)
	return services.Actor{
		AdminID:   adminCtx.AdminID,
		Email:     adminCtx.Email,
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
}

// workspaceFor returns the signed-in staff member's workspace
func workspaceFor(c *gin.Context, store *services.WorkspaceStore) *services.Workspace {
	adminCtx := middleware.MustGetAdminContext(c)
	return store.Get(adminCtx.SessionID.String())
}

// page returns the data every template expects
func page(c *gin.Context, title string) gin.H {
	data := gin.H{"Title": title}
	if adminCtx, ok := middleware.GetAdminContext(c); ok {
		data["Admin"] = adminCtx
	}
	return data
}
