package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stackcare/stackcare-backend/internal/http/response"
	"github.com/stackcare/stackcare-backend/internal/pkg/ctxutil"
	"github.com/stackcare/stackcare-backend/internal/services"
	"github.com/stackcare/stackcare-backend/internal/types"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func pairingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/user/supplements/schedules
func (sh *ScheduleHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	views, err := sh.scheduleService.List(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"schedules": views})
}

// GET /api/user/supplements/:id/schedule
func (sh *ScheduleHandler) Get(c *gin.Context) {
	id, ok := pairingID(c)
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	view, err := sh.scheduleService.Get(c.Request.Context(), rd.UserID, id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"schedule": view})
}

// POST /api/user/supplements/:id/schedule
// body: { "days": [0..6], "times": [{"time": "HH:MM", "label": "..."}] }
func (sh *ScheduleHandler) Upsert(c *gin.Context) {
	id, ok := pairingID(c)
	if !ok {
		return
	}
	var req types.ScheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	view, err := sh.scheduleService.Upsert(c.Request.Context(), rd.UserID, id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"schedule": view})
}

// DELETE /api/user/supplements/:id/schedule
func (sh *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := pairingID(c)
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	deleted, err := sh.scheduleService.Delete(c.Request.Context(), rd.UserID, id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": deleted})
}

// PATCH /api/user/supplements/:id/schedule/active
// body: { "is_active": true }
func (sh *ScheduleHandler) SetActive(c *gin.Context) {
	id, ok := pairingID(c)
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := sh.scheduleService.SetActive(c.Request.Context(), rd.UserID, id, *req.IsActive); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
