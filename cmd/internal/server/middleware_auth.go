package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/procurement-go/cmd/internal/config"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/auth"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// AuthMiddleware проверяет наличие и валидность JWT access токена из httpOnly cookie
// При успешной валидации помещает user_id и role в gin.Context
func AuthMiddleware(cfg *config.Config, authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, err := c.Cookie(cfg.Auth.CookieAccessName)
		if err != nil || accessToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "access token not found",
			})
			return
		}

		claims, err := authService.ValidateAccessToken(accessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired access token",
			})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole пропускает пользователя с одной из ролей. Используется после AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		roleValue, exists := c.Get(roleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		role, ok := roleValue.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "invalid role type in context",
			})
			return
		}

		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// currentUserID - ID пользователя из AuthMiddleware, 0 если не аутентифицирован
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
