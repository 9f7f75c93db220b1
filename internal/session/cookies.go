package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names are part of the client contract; do not rename.
const (
	CookieApp     = "appToken"
	CookieAuth    = "authToken"
	CookieRefresh = "refreshToken"
)

// CookieWriter centralizes cookie attributes: httpOnly always,
// SameSite=Strict always, Secure only in production so local HTTP
// development keeps working.
type CookieWriter struct {
	Secure bool
}

func (w CookieWriter) Set(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", w.Secure, true)
}

// Clear expires a cookie immediately.
func (w CookieWriter) Clear(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", w.Secure, true)
}

func cookieValue(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}
