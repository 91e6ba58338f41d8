package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type updateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// listUsersHandler обрабатывает GET /api/v1/admin/users
func (s *Server) listUsersHandler(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	users, err := s.authService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

// createUserHandler обрабатывает POST /api/v1/admin/users
func (s *Server) createUserHandler(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	user, err := s.authService.CreateUser(c.Request.Context(), currentUserID(c), req.Email, req.Password, req.Role)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

// updateUserRoleHandler обрабатывает PATCH /api/v1/admin/users/:id/role
func (s *Server) updateUserRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	user, err := s.authService.ChangeRole(c.Request.Context(), currentUserID(c), id, req.Role)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
