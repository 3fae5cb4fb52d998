package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type apiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Kind       string `json:"kind"`
	Success    bool   `json:"success"`
}

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, apiResponse{StatusCode: status, Data: data, Message: message, Success: true})
}

var statusByKind = map[string]int{
	"InvalidInput":         http.StatusBadRequest,
	"AuthenticationFailed": http.StatusUnauthorized,
	"InvalidCredentials":   http.StatusUnauthorized,
	"Unauthorized":         http.StatusUnauthorized,
	"TokenExpired":         http.StatusUnauthorized,
	"TokenInvalid":         http.StatusUnauthorized,
	"RefreshTokenStale":    http.StatusUnauthorized,
	"Forbidden":            http.StatusForbidden,
	"NotFound":             http.StatusNotFound,
	"AlreadyExists":        http.StatusConflict,
	"StorageFailure":       http.StatusServiceUnavailable,
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if s, found := statusByKind[common.Kind(err)]; found {
		return s
	}
	return http.StatusInternalServerError
}

// writeError renders the failure envelope. Only validation errors and
// annotated conflicts carry their own text; everything else gets a fixed message per kind so that
// internals never reach the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := common.Kind(err)
	status := StatusFor(err)

	msg := publicMessage(kind)
	if kind == "InvalidInput" || (kind == "AlreadyExists" && err != common.ErrAlreadyExists) {
		msg = err.Error()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "kind", kind, "error", err)
		sentry.CaptureException(err)
	}

	c.AbortWithStatusJSON(status, apiError{StatusCode: status, Message: msg, Kind: kind, Success: false})
}

func publicMessage(kind string) string {
	switch kind {
	case "AuthenticationFailed":
		return "invalid username, email or password"
	case "InvalidCredentials":
		return "invalid old password"
	case "Unauthorized":
		return "unauthorized request"
	case "TokenExpired":
		return "token expired"
	case "TokenInvalid":
		return "invalid token"
	case "RefreshTokenStale":
		return "refresh token is expired or used"
	case "Forbidden":
		return "forbidden"
	case "NotFound":
		return "not found"
	case "AlreadyExists":
		return "user with email or username already exists"
	case "StorageFailure":
		return "storage unavailable"
	default:
		return "internal server error"
	}
}
