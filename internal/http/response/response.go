package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
)

var errInternal = errors.New("internal server error")

// serverMessages replace the cause of a 5xx so upstream detail stays in logs.
var serverMessages = map[string]error{
	"generation_failed": errors.New("roadmap generation failed"),
}

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
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

// RespondServiceError classifies err through the apierr taxonomy. Server
// failures are reported with a fixed message per code; the cause is the
// caller's to log.
func RespondServiceError(c *gin.Context, err error) {
	status, code := apierr.Classify(err)
	if status >= http.StatusInternalServerError {
		masked, ok := serverMessages[code]
		if !ok {
			masked = errInternal
		}
		RespondError(c, status, code, masked)
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
