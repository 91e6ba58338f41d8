package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
)

type createPlanRequest struct {
	Year  int32  `json:"year" binding:"required"`
	Title string `json:"title"`
}

type changePlanStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) listPlansHandler(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	plans, err := s.planService.ListPlans(c.Request.Context(), limit, offset)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(plans, newPlanResponse))
}

func (s *Server) getPlanHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := s.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(p))
}

func (s *Server) createPlanHandler(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	p, err := s.planService.CreatePlan(c.Request.Context(), currentUserID(c), api_models.NewPlan{Year: req.Year, Title: req.Title})
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPlanResponse(p))
}

// changePlanStatusHandler обрабатывает PATCH /api/v1/plans/:id/status
func (s *Server) changePlanStatusHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req changePlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	p, err := s.planService.ChangeStatus(c.Request.Context(), currentUserID(c), id, req.Status)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(p))
}
