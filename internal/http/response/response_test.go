package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/httpx"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
		body string
	}{
		{apierr.ErrNotFoundOrForbidden, http.StatusNotFound, `{"error":{"message":"learning path not found","code":"not_found"}}`},
		{fmt.Errorf("wrapped: %w", apierr.ErrUnauthenticated), http.StatusUnauthorized, `{"error":{"message":"wrapped: authentication required","code":"unauthenticated"}}`},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, `{"error":{"message":"internal server error","code":"internal_error"}}`},
		{
			fmt.Errorf("%w: %w", apierr.ErrGenerationFailed, &httpx.StatusError{Service: "gemini", StatusCode: 403, Body: `{"error":"API key AIza-SECRET invalid"}`}),
			http.StatusInternalServerError,
			`{"error":{"message":"roadmap generation failed","code":"generation_failed"}}`,
		},
		{apierr.New(http.StatusBadGateway, "upstream", errors.New("dial tcp 10.0.0.3:443")), http.StatusBadGateway, `{"error":{"message":"internal server error","code":"upstream"}}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		RespondServiceError(c, tc.err)
		assert.Equal(t, tc.want, rec.Code)
		assert.JSONEq(t, tc.body, rec.Body.String())
	}
}
