package session

import (
	"net/http"
	"strings"
	"time"

	"collab-platform/internal/token"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireAuth guards protected API routes. It accepts a live auth
// cookie or, failing that, a live refresh cookie; in the second case a
// replacement auth token rides out on the response, so the UI never
// sees a "please refresh" round trip. No verifiable token means 401.
func RequireAuth(svc *Service, cookies CookieWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, rotated, ok := svc.Authenticate(c.Request.Context(), cookieValue(c, CookieAuth), cookieValue(c, CookieRefresh))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if rotated != "" {
			cookies.Set(c, CookieAuth, rotated, svc.Codec().TTL(token.ClassAuth))
		}

		c.Request = c.Request.WithContext(token.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// Gatekeeper runs ahead of non-API page requests and only ever helps:
// it rotates an expired auth cookie off a valid refresh cookie and
// passes through. It never produces a 401 or a redirect; the downstream
// page owns its own auth gate.
func Gatekeeper(svc *Service, cookies CookieWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, rotated, ok := svc.Authenticate(c.Request.Context(), cookieValue(c, CookieAuth), cookieValue(c, CookieRefresh))
		if ok {
			if rotated != "" {
				cookies.Set(c, CookieAuth, rotated, svc.Codec().TTL(token.ClassAuth))
			}
			c.Request = c.Request.WithContext(token.WithIdentity(c.Request.Context(), id))
		}
		c.Next()
	}
}

// RequireInternal guards service-to-service routes. The bearer token
// must verify under the internal secret and carry the expected origin
// claim; both factors are needed.
func RequireInternal(codec *token.Codec, expectedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		uid, ok := codec.VerifyInternal(strings.TrimPrefix(raw, bearerPrefix), expectedOrigin, time.Now())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Request = c.Request.WithContext(token.WithIdentity(c.Request.Context(), token.Identity{UID: uid, Role: token.RoleClient}))
		c.Next()
	}
}
