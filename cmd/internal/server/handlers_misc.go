package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *Server) HomeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Procurement API",
	})
}

// getStatsHandler - число заявок по статусам, нулевые статусы тоже в ответе
func (s *Server) getStatsHandler(c *gin.Context) {
	rows, err := s.store.CountDemandsByStatus(c.Request.Context())
	if err != nil {
		s.internalError(c, err, "не удалось посчитать заявки по статусам")
		return
	}

	byStatus := make(map[string]int64, len(db.AllDemandStatusValues()))
	for _, st := range db.AllDemandStatusValues() {
		byStatus[string(st)] = 0
	}
	var total int64
	for _, r := range rows {
		byStatus[string(r.Status)] = r.Total
		total += r.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"demands_total":     total,
		"demands_by_status": byStatus,
	})
}

// parsePagination читает page и page_size, при ошибке сразу отвечает 400
func parsePagination(c *gin.Context) (limit, offset int32, ok bool) {
	pageID, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 32)
	if err != nil || pageID < 1 {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("неверный параметр page")))
		return 0, 0, false
	}

	pageSize, err := strconv.ParseInt(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)), 10, 32)
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("неверный параметр page_size (допустимо от 1 до %d)", maxPageSize)))
		return 0, 0, false
	}

	return int32(pageSize), (int32(pageID) - 1) * int32(pageSize), true
}

// parseIDParam читает положительный int64 из параметра пути
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("неверный параметр %s", name)))
		return 0, false
	}
	return id, true
}
