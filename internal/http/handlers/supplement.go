package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stackcare/stackcare-backend/internal/http/response"
	"github.com/stackcare/stackcare-backend/internal/pkg/ctxutil"
	"github.com/stackcare/stackcare-backend/internal/services"
	"github.com/stackcare/stackcare-backend/internal/types"
)

type SupplementHandler struct {
	catalogService services.CatalogService
}

func NewSupplementHandler(catalogService services.CatalogService) *SupplementHandler {
	return &SupplementHandler{catalogService: catalogService}
}

func listLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}

// GET /api/supplements
func (sh *SupplementHandler) ListPublished(c *gin.Context) {
	supplements, err := sh.catalogService.ListPublished(c.Request.Context(), listLimit(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supplements": supplements})
}

// GET /api/supplements/:id
func (sh *SupplementHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	supplement, err := sh.catalogService.GetSupplement(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supplement": supplement})
}

// POST /api/supplements/submit
// body: RecognizedProduct
func (sh *SupplementHandler) Submit(c *gin.Context) {
	var req types.RecognizedProduct
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	resolution, err := sh.catalogService.Submit(c.Request.Context(), rd.UserID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, resolution)
}

// GET /api/user/supplements
func (sh *SupplementHandler) ListStack(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	stack, err := sh.catalogService.ListStack(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supplements": stack})
}

// POST /api/user/supplements
// body: { "supplement_id": "..." }
func (sh *SupplementHandler) AddToStack(c *gin.Context) {
	var req struct {
		SupplementID uuid.UUID `json:"supplement_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	pairing, err := sh.catalogService.AddToStack(c.Request.Context(), rd.UserID, req.SupplementID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user_supplement": pairing})
}

// DELETE /api/user/supplements/:id
func (sh *SupplementHandler) RemoveFromStack(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := sh.catalogService.RemoveFromStack(c.Request.Context(), rd.UserID, id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/admin/supplements/pending
func (sh *SupplementHandler) ListPending(c *gin.Context) {
	pending, err := sh.catalogService.ListPending(c.Request.Context(), listLimit(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supplements": pending})
}

// POST /api/admin/supplements/:id/publish
func (sh *SupplementHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := sh.catalogService.Publish(c.Request.Context(), rd.UserID, id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/admin/supplements/:id/reject
// body: { "notes": "..." }
func (sh *SupplementHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Notes *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := sh.catalogService.Reject(c.Request.Context(), rd.UserID, id, req.Notes); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
