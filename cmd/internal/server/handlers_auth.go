package server

import (
	"database/sql"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/procurement-go/cmd/internal/services/auth"
)

// LoginRequest содержит данные для аутентификации
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// loginHandler обрабатывает POST /api/v1/auth/login
// Токены возвращаются в httpOnly cookies, CSRF-токен в обычной cookie
func (s *Server) loginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	ipAddress := parseIPAddress(c.ClientIP())

	result, err := s.authService.Login(c.Request.Context(), req.Email, req.Password, ipAddress, c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		s.internalError(c, err, "вход не выполнен")
		return
	}

	if err := s.setAuthCookies(c, result.AccessToken, result.RefreshToken); err != nil {
		s.internalError(c, err, "не удалось выставить cookies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(result.User)})
}

// refreshHandler обрабатывает POST /api/v1/auth/refresh
func (s *Server) refreshHandler(c *gin.Context) {
	refreshToken, err := c.Cookie(s.config.Auth.CookieRefreshName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token not found"})
		return
	}

	ipAddress := parseIPAddress(c.ClientIP())

	result, err := s.authService.Refresh(c.Request.Context(), refreshToken, ipAddress, c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrInvalidToken) {
			s.clearAuthCookies(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}
		s.internalError(c, err, "не удалось обновить токены")
		return
	}

	if err := s.setAuthCookies(c, result.AccessToken, result.RefreshToken); err != nil {
		s.internalError(c, err, "не удалось выставить cookies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tokens refreshed successfully"})
}

// logoutHandler обрабатывает POST /api/v1/auth/logout
func (s *Server) logoutHandler(c *gin.Context) {
	refreshToken, err := c.Cookie(s.config.Auth.CookieRefreshName)
	if err == nil {
		if err := s.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			// cookies все равно очищаем
			s.logger.WithField("request_id", c.GetString(requestIDKey)).Errorf("logout: %v", err)
		}
	}

	s.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// meHandler обрабатывает GET /api/v1/auth/me
func (s *Server) meHandler(c *gin.Context) {
	user, err := s.authService.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		s.internalError(c, err, "не удалось получить пользователя")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (s *Server) applySameSite(c *gin.Context) {
	switch s.config.Auth.CookieSameSite {
	case "strict":
		c.SetSameSite(http.SameSiteStrictMode)
	case "lax":
		c.SetSameSite(http.SameSiteLaxMode)
	case "none":
		c.SetSameSite(http.SameSiteNoneMode)
	}
}

// setAuthCookies ставит access и refresh в httpOnly cookies и новый CSRF-токен в cookie, читаемую фронтом
func (s *Server) setAuthCookies(c *gin.Context, accessToken, refreshToken string) error {
	csrfToken, err := newCSRFToken()
	if err != nil {
		return err
	}

	cfg := s.config.Auth
	s.applySameSite(c)
	c.SetCookie(cfg.CookieAccessName, accessToken, int(cfg.AccessTokenTTL.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.CookieRefreshName, refreshToken, int(cfg.RefreshTokenTTL.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(csrfCookieName, csrfToken, int(cfg.RefreshTokenTTL.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, false)
	return nil
}

// clearAuthCookies очищает auth cookies с тем же SameSite, что и при создании
func (s *Server) clearAuthCookies(c *gin.Context) {
	cfg := s.config.Auth
	s.applySameSite(c)
	c.SetCookie(cfg.CookieAccessName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.CookieRefreshName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(csrfCookieName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, false)
}

// parseIPAddress парсит IP адрес из строки, порт отбрасывается
func parseIPAddress(ipStr string) *net.IP {
	host, _, err := net.SplitHostPort(ipStr)
	if err == nil {
		ipStr = host
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil
	}
	return &ip
}
