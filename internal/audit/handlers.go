package audit

import (
	"net/http"
	"strconv"

	"collab-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the audit log to admins. Read-only by construction;
// the write path belongs to the session service.
type Handlers struct {
	Service *Service
}

func (h Handlers) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.Service.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.FromGin(c).Error("audit list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
