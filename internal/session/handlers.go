package session

import (
	"errors"
	"net/http"

	"collab-platform/internal/token"
	"collab-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the session protocol over HTTP. Keep these thin:
// read cookies and body, call the service, translate errors, write
// cookies.
type Handlers struct {
	Service *Service
	Cookies CookieWriter
}

// Bootstrap issues (or echoes back) the anonymous app token that gates
// login and register. Idempotent: a request that already carries a
// valid app token gets the same value back.
func (h Handlers) Bootstrap(c *gin.Context) {
	tok, reused, err := h.Service.Bootstrap(cookieValue(c, CookieApp))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !reused {
		h.Cookies.Set(c, CookieApp, tok, h.Service.Codec().TTL(token.ClassApp))
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

func (h Handlers) Login(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	result, err := h.Service.Login(c.Request.Context(), c.ClientIP(), cookieValue(c, CookieApp), creds)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusOK, gin.H{"token": result.AuthToken, "user": result.User})
}

func (h Handlers) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	result, err := h.Service.Register(c.Request.Context(), c.ClientIP(), cookieValue(c, CookieApp), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusCreated, gin.H{"token": result.AuthToken, "user": result.User})
}

// CheckAuth reports whether the caller holds a live session, silently
// rotating an expired auth token when the refresh token still verifies.
// Always 200; the auth flag carries the answer.
func (h Handlers) CheckAuth(c *gin.Context) {
	id, rotated, ok := h.Service.Authenticate(c.Request.Context(), cookieValue(c, CookieAuth), cookieValue(c, CookieRefresh))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"auth": false})
		return
	}
	if rotated != "" {
		h.Cookies.Set(c, CookieAuth, rotated, h.Service.Codec().TTL(token.ClassAuth))
	}
	c.JSON(http.StatusOK, gin.H{"auth": true, "user": identityBody(id)})
}

// Logout clears the session cookies unconditionally. There is no
// server-side revocation list; see the service for the tradeoff.
func (h Handlers) Logout(c *gin.Context) {
	h.Service.Logout(c.Request.Context(), cookieValue(c, CookieAuth))
	h.Cookies.Clear(c, CookieAuth)
	h.Cookies.Clear(c, CookieRefresh)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h Handlers) setSessionCookies(c *gin.Context, result LoginResult) {
	codec := h.Service.Codec()
	h.Cookies.Set(c, CookieAuth, result.AuthToken, codec.TTL(token.ClassAuth))
	h.Cookies.Set(c, CookieRefresh, result.RefreshToken, codec.TTL(token.ClassRefresh))
	// The app token has served its purpose once a session exists.
	h.Cookies.Clear(c, CookieApp)
}

func (h Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, ErrInvalidAppToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid app token"})
	case errors.Is(err, ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, ErrTooManyAttempts):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
	default:
		logger.FromGin(c).Error("session handler failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func identityBody(id token.Identity) gin.H {
	body := gin.H{"uid": id.UID, "role": id.Role}
	if id.Email != "" {
		body["email"] = id.Email
	}
	if id.Name != "" {
		body["name"] = id.Name
	}
	if id.Company != "" {
		body["company"] = id.Company
	}
	return body
}
