package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
)

type supplierRequest struct {
	Name     string  `json:"name" binding:"required"`
	Document string  `json:"document" binding:"required"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
}

func (r supplierRequest) toSupplierData() api_models.SupplierData {
	return api_models.SupplierData{Name: r.Name, Document: r.Document, Email: r.Email, Phone: r.Phone}
}

func (s *Server) listSuppliersHandler(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	suppliers, err := s.supplierService.ListSuppliers(c.Request.Context(), limit, offset)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(suppliers, newSupplierResponse))
}

func (s *Server) getSupplierHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sup, err := s.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSupplierResponse(sup))
}

func (s *Server) createSupplierHandler(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	sup, err := s.supplierService.CreateSupplier(c.Request.Context(), currentUserID(c), req.toSupplierData())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSupplierResponse(sup))
}

// updateSupplierHandler обрабатывает PUT /api/v1/suppliers/:id; документ менять нельзя
func (s *Server) updateSupplierHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	sup, err := s.supplierService.UpdateSupplier(c.Request.Context(), currentUserID(c), id, req.toSupplierData())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSupplierResponse(sup))
}

func (s *Server) deleteSupplierHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.supplierService.DeleteSupplier(c.Request.Context(), currentUserID(c), id); err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
