package handler

import (
	"net/http"
	"strconv"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/repository"

	"github.com/gin-gonic/gin"
)

const defaultAuditLimit = 50

// AuditHandler отдаёт журнал действий администраторов
type AuditHandler struct {
	auditRepo repository.AuditRepository
}

func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
	}
}

func (h *AuditHandler) ListRecent(c *gin.Context) {
	limit := int64(defaultAuditLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	entries, err := h.auditRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to load audit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}
