package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
)

var auditEntityTypes = map[string]bool{
	audit.EntityDemand:   true,
	audit.EntityItem:     true,
	audit.EntityPrice:    true,
	audit.EntityPlan:     true,
	audit.EntitySupplier: true,
	audit.EntityUser:     true,
}

// listAuditLogsHandler обрабатывает GET /api/v1/audit-logs?entity_type=demand&entity_id=1
func (s *Server) listAuditLogsHandler(c *gin.Context) {
	entityType := c.Query("entity_type")
	if !auditEntityTypes[entityType] {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("неверный параметр entity_type")))
		return
	}
	entityID, err := strconv.ParseInt(c.Query("entity_id"), 10, 64)
	if err != nil || entityID <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("неверный параметр entity_id")))
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	logs, err := s.auditService.List(c.Request.Context(), entityType, entityID, limit, offset)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(logs, newAuditLogResponse))
}

// listNotificationsHandler обрабатывает GET /api/v1/notifications?unread=true
func (s *Server) listNotificationsHandler(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	items, err := s.notifications.ListForUser(c.Request.Context(), currentUserID(c), unreadOnly, limit, offset)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(items, newNotificationResponse))
}

func (s *Server) markNotificationReadHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	n, err := s.notifications.MarkRead(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newNotificationResponse(n))
}
