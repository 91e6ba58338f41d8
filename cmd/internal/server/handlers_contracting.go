package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
)

type changeStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	Justification string `json:"justification"`
}

type startContractingRequest struct {
	ProcessNumber string `json:"process_number" binding:"required"`
}

type finalizeContractRequest struct {
	ContractNumber  string          `json:"contract_number" binding:"required"`
	ContractedValue decimal.Decimal `json:"contracted_value"`
}

type justificationRequest struct {
	Justification string `json:"justification"`
}

// changeDemandStatusHandler обрабатывает POST /api/v1/demands/:id/status (ручной переход)
func (s *Server) changeDemandStatusHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	d, err := s.demandService.ChangeStatus(c.Request.Context(), currentUserID(c), id, req.Status, req.Justification)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandResponse(d))
}

// startContractingHandler обрабатывает POST /api/v1/demands/:id/start-contracting
func (s *Server) startContractingHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req startContractingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	d, err := s.demandService.StartContracting(c.Request.Context(), currentUserID(c), id, req.ProcessNumber)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandResponse(d))
}

// finalizeContractHandler обрабатывает POST /api/v1/demands/:id/finalize-contract
func (s *Server) finalizeContractHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req finalizeContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	d, err := s.demandService.FinalizeContract(c.Request.Context(), currentUserID(c), id, api_models.ContractData{
		ContractNumber:  req.ContractNumber,
		ContractedValue: req.ContractedValue,
	})
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandResponse(d))
}

// suspendHandler обрабатывает POST /api/v1/demands/:id/suspend
func (s *Server) suspendHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req justificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	d, err := s.demandService.Suspend(c.Request.Context(), currentUserID(c), id, req.Justification)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandResponse(d))
}

// resumeHandler обрабатывает POST /api/v1/demands/:id/resume
func (s *Server) resumeHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	d, err := s.demandService.Resume(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandResponse(d))
}

// cancelHandler обрабатывает POST /api/v1/demands/:id/cancel. Обоснование обязательно.
func (s *Server) cancelHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req justificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	d, err := s.demandService.Cancel(c.Request.Context(), currentUserID(c), id, req.Justification)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemandResponse(d))
}
