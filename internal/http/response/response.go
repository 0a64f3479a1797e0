package response

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps the service sentinel wrapped in err onto an HTTP
// status. Anything unrecognized is a 500 with the detail withheld.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, errors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case stderrors.Is(err, errors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case stderrors.Is(err, errors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case stderrors.Is(err, errors.ErrConflict):
		RespondError(c, http.StatusConflict, "conflict", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", stderrors.New("internal error"))
	}
}
