package project

import (
	"errors"
	"net/http"
	"strings"

	"collab-platform/internal/rbac"
	"collab-platform/internal/token"
	"collab-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers serves the project read API. Routes sit behind the session
// auth middleware, so a request reaching here always has an identity in
// context; listing is the canonical "authenticated read with rotation"
// surface.
type Handlers struct {
	Store Store
}

func (h Handlers) List(c *gin.Context) {
	uid, err := token.UID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	projects, err := h.Store.ListForUser(c.Request.Context(), uid)
	if err != nil {
		logger.FromGin(c).Error("project list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Create opens a quote request. The caller becomes the client; a
// developer is assigned and the quote filled in later, out of band.
func (h Handlers) Create(c *gin.Context) {
	uid, err := token.UID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	p, err := h.Store.Insert(c.Request.Context(), Project{
		ClientUID:   uid,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      StatusQuoteRequested,
	})
	if err != nil {
		logger.FromGin(c).Error("project create failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h Handlers) Get(c *gin.Context) {
	uid, err := token.UID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	id := c.Param("project_id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "project_id required"})
		return
	}

	p, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.FromGin(c).Error("project get failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	role, _ := token.Role(c.Request.Context())
	if p.ClientUID != uid && p.DeveloperUID != uid && !rbac.IsAdmin(role) {
		// Same response as a missing project; ids are not probeable.
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
