package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stackcare/stackcare-backend/internal/http/response"
	"github.com/stackcare/stackcare-backend/internal/pkg/ctxutil"
	"github.com/stackcare/stackcare-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GET /api/dashboard?date=YYYY-MM-DD
func (dh *DashboardHandler) GetDashboard(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	data, err := dh.dashboardService.GetDashboard(c.Request.Context(), rd.UserID, c.Query("date"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, data)
}

// GET /api/dashboard/doses?date=YYYY-MM-DD
func (dh *DashboardHandler) GetDoses(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	doses, err := dh.dashboardService.GetDosesForDate(c.Request.Context(), rd.UserID, c.Query("date"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"doses": doses})
}

// POST /api/dashboard/log
// body: { "user_supplement_id": "...", "scheduled_time": "HH:MM", "date": "YYYY-MM-DD" }
func (dh *DashboardHandler) MarkTaken(c *gin.Context) {
	var req struct {
		UserSupplementID uuid.UUID `json:"user_supplement_id" binding:"required"`
		ScheduledTime    string    `json:"scheduled_time" binding:"required"`
		Date             string    `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	receipt, err := dh.dashboardService.MarkDoseTaken(c.Request.Context(), rd.UserID, req.UserSupplementID, req.ScheduledTime, req.Date)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, receipt)
}

// DELETE /api/dashboard/log/:id
func (dh *DashboardHandler) Unmark(c *gin.Context) {
	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	deleted, err := dh.dashboardService.UnmarkDose(c.Request.Context(), rd.UserID, logID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": deleted})
}
