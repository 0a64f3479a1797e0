package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackcare/stackcare-backend/internal/http/response"
	"github.com/stackcare/stackcare-backend/internal/pkg/ctxutil"
	"github.com/stackcare/stackcare-backend/internal/services"
)

// maxUploadBytes bounds the multipart read before the image reaches the
// classifier, which enforces its own cap as well.
const maxUploadBytes = 10 << 20

type VisionHandler struct {
	recognitionService services.RecognitionService
}

func NewVisionHandler(recognitionService services.RecognitionService) *VisionHandler {
	return &VisionHandler{recognitionService: recognitionService}
}

// POST /api/vision/supplement
// multipart form field "image"
func (vh *VisionHandler) RecognizeSupplement(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	rd := ctxutil.GetRequestData(c.Request.Context())
	resolutions, err := vh.recognitionService.RecognizeAndResolve(
		c.Request.Context(), rd.UserID, image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resolutions": resolutions})
}
