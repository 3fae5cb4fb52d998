package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) setSessionCookies(c *gin.Context, pair models.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.AccessTokenCookieName, pair.AccessToken,
		int(h.opts.AccessTokenTTL.Seconds()), "/", "", h.opts.CookieSecure, true)
	c.SetCookie(common.RefreshTokenCookieName, pair.RefreshToken,
		int(h.opts.RefreshTokenTTL.Seconds()), "/", "", h.opts.CookieSecure, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", "", h.opts.CookieSecure, true)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, "/", "", h.opts.CookieSecure, true)
}

// accessToken reads the cookie first, then an Authorization: Bearer header.
func accessToken(c *gin.Context) string {
	if v, err := c.Cookie(common.AccessTokenCookieName); err == nil && v != "" {
		return v
	}
	header := c.GetHeader("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
