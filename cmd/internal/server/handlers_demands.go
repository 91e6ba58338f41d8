package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
)

type createDemandRequest struct {
	PlanID        int64   `json:"plan_id" binding:"required,gt=0"`
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description"`
	ResponsibleID *int64  `json:"responsible_id"`
}

type updateDemandRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description"`
	ResponsibleID *int64  `json:"responsible_id"`
}

// listDemandsHandler обрабатывает GET /api/v1/demands?plan_id=&status=&page=&page_size=
func (s *Server) listDemandsHandler(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	filter := api_models.DemandFilter{Limit: limit, Offset: offset}
	if raw := c.Query("plan_id"); raw != "" {
		planID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || planID <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("неверный параметр plan_id")))
			return
		}
		filter.PlanID = &planID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	demands, err := s.demandService.ListDemands(c.Request.Context(), filter)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(demands, newDemandResponse))
}

// createDemandHandler обрабатывает POST /api/v1/demands
func (s *Server) createDemandHandler(c *gin.Context) {
	var req createDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	d, err := s.demandService.CreateDemand(c.Request.Context(), currentUserID(c), api_models.NewDemand{
		PlanID:        req.PlanID,
		Title:         req.Title,
		Description:   req.Description,
		ResponsibleID: req.ResponsibleID,
	})
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newDemandResponse(d))
}

// getDemandHandler обрабатывает GET /api/v1/demands/:id (заявка вместе с позициями)
func (s *Server) getDemandHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := s.demandService.GetDemandDetails(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandDetailsResponse(details))
}

// updateDemandHandler обрабатывает PATCH /api/v1/demands/:id
func (s *Server) updateDemandHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	d, err := s.demandService.UpdateDemand(c.Request.Context(), currentUserID(c), id, api_models.DemandPatch{
		Title:         req.Title,
		Description:   req.Description,
		ResponsibleID: req.ResponsibleID,
	})
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandResponse(d))
}

// deleteDemandHandler обрабатывает DELETE /api/v1/demands/:id
func (s *Server) deleteDemandHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.demandService.DeleteDemand(c.Request.Context(), currentUserID(c), id); err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
