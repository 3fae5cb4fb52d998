package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// requireAuth verifies the access token and stores the user id in the context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			h.writeError(c, common.ErrorUnauthorized)
			return
		}
		userID, err := h.sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// optionalAuth sets the user id when a valid access token is present and
// lets anonymous requests through otherwise.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := accessToken(c); token != "" {
			if userID, err := h.sessions.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func (h *Handler) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				sentry.WithScope(func(scope *sentry.Scope) {
					scope.SetExtra("panic", rec)
					scope.SetExtra("stack", string(debug.Stack()))
					sentry.CaptureMessage("panic in request")
				})
				h.logger.Error(c.Request.Context(), "panic recovered",
					"method", c.Request.Method, "path", c.Request.URL.Path, "panic", fmt.Sprint(rec))
				c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
					StatusCode: http.StatusInternalServerError,
					Message:    "internal server error",
					Kind:       "Internal",
				})
			}
		}()
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		)
	}
}

// cors answers for allow-listed origins only. Listed origins get
// credentials, which cookie sessions need; a "*" entry opens reads to any
// origin without credentials.
func (h *Handler) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(h.origins) == 0 {
			c.Next()
			return
		}
		hdr := c.Writer.Header()
		hdr.Add("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case origin != "" && h.origins[origin]:
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Credentials", "true")
		case h.origins["*"]:
			hdr.Set("Access-Control-Allow-Origin", "*")
		default:
			c.Next()
			return
		}
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
