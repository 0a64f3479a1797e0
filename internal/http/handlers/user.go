package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackcare/stackcare-backend/internal/http/response"
	"github.com/stackcare/stackcare-backend/internal/pkg/ctxutil"
	"github.com/stackcare/stackcare-backend/internal/services"
)

type UserHandler struct {
	userService  services.UserService
	statsService services.StatsService
}

func NewUserHandler(userService services.UserService, statsService services.StatsService) *UserHandler {
	return &UserHandler{userService: userService, statsService: statsService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	me, err := uh.userService.GetMe(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /api/me
// body: { "name": "..." }
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	user, err := uh.userService.UpdateProfile(c.Request.Context(), rd.UserID, req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": user})
}

// GET /api/user/stats
func (uh *UserHandler) GetStats(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	summary, err := uh.statsService.GetUserStats(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": summary})
}
