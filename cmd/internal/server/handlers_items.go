package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
)

type itemRequest struct {
	Description string          `json:"description" binding:"required"`
	Unit        string          `json:"unit" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

func (r itemRequest) toItemData() api_models.ItemData {
	return api_models.ItemData{Description: r.Description, Unit: r.Unit, Quantity: r.Quantity}
}

type quotationRequest struct {
	UnitValue   decimal.Decimal `json:"unit_value"`
	CollectedAt string          `json:"collected_at" binding:"required"`
	Source      string          `json:"source" binding:"required"`
	SupplierID  *int64          `json:"supplier_id"`
}

func (r quotationRequest) toQuotation() api_models.Quotation {
	return api_models.Quotation{
		UnitValue:   r.UnitValue,
		CollectedAt: r.CollectedAt,
		Source:      r.Source,
		SupplierID:  r.SupplierID,
	}
}

type batchPricesRequest struct {
	Quotations []quotationRequest `json:"quotations" binding:"required,min=1,dive"`
}

// addItemHandler обрабатывает POST /api/v1/demands/:id/items
func (s *Server) addItemHandler(c *gin.Context) {
	demandID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	item, err := s.demandService.AddItem(c.Request.Context(), currentUserID(c), demandID, req.toItemData())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newItemResponse(item, 0))
}

// updateItemHandler обрабатывает PUT /api/v1/items/:id
func (s *Server) updateItemHandler(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	item, err := s.demandService.UpdateItem(c.Request.Context(), currentUserID(c), itemID, req.toItemData())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemResponse(item, s.activePriceCount(c, item.ID)))
}

// deleteItemHandler обрабатывает DELETE /api/v1/items/:id
func (s *Server) deleteItemHandler(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.demandService.DeleteItem(c.Request.Context(), currentUserID(c), itemID); err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listPricesHandler обрабатывает GET /api/v1/items/:id/prices?include_inactive=true
func (s *Server) listPricesHandler(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))

	prices, err := s.demandService.ListPrices(c.Request.Context(), itemID, includeInactive)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(prices, newPriceResponse))
}

// addPriceHandler обрабатывает POST /api/v1/items/:id/prices
func (s *Server) addPriceHandler(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req quotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	price, err := s.demandService.AddPrice(c.Request.Context(), currentUserID(c), itemID, req.toQuotation())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPriceResponse(price))
}

// addPricesBatchHandler обрабатывает POST /api/v1/items/:id/prices/batch.
// Пакет сохраняется целиком или не сохраняется вовсе.
func (s *Server) addPricesBatchHandler(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req batchPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	quotations := make([]api_models.Quotation, 0, len(req.Quotations))
	for _, q := range req.Quotations {
		quotations = append(quotations, q.toQuotation())
	}

	prices, err := s.demandService.AddPricesBatch(c.Request.Context(), currentUserID(c), itemID, quotations)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapSlice(prices, newPriceResponse))
}

// removePriceHandler обрабатывает DELETE /api/v1/prices/:id?hard=true.
// По умолчанию котировка деактивируется, hard=true удаляет строку.
func (s *Server) removePriceHandler(c *gin.Context) {
	priceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	hard, _ := strconv.ParseBool(c.DefaultQuery("hard", "false"))

	if err := s.demandService.RemovePrice(c.Request.Context(), currentUserID(c), priceID, hard); err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// activePriceCount нужен только для ответа; ошибка подсчета не роняет запрос
func (s *Server) activePriceCount(c *gin.Context, itemID int64) int64 {
	prices, err := s.store.ListActivePricesByItem(c.Request.Context(), itemID)
	if err != nil {
		s.logger.Warnf("не удалось посчитать котировки позиции %d: %v", itemID, err)
		return 0
	}
	return int64(len(prices))
}
