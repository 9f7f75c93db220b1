package dashboard

import (
	"net/http"

	"collab-platform/internal/token"
	"collab-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Service *Service
}

func (h Handlers) Summary(c *gin.Context) {
	uid, err := token.UID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	summary, err := h.Service.Summarize(c.Request.Context(), uid)
	if err != nil {
		logger.FromGin(c).Error("dashboard summary failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
