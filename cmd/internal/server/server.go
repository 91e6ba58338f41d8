package server

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/procurement-go/cmd/internal/config"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/auth"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/demand"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/notification"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/plan"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/supplier"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

// Лимит попыток входа с одного IP: запросов в секунду и размер всплеска
const (
	loginRatePerSecond = 1
	loginBurst         = 5
)

type Server struct {
	store           db.Store
	router          *gin.Engine
	logger          *logging.Logger
	authService     *auth.Service
	demandService   *demand.Service
	planService     *plan.Service
	supplierService *supplier.Service
	auditService    *audit.Service
	notifications   *notification.Dispatcher
	config          *config.Config
}

func NewServer(
	store db.Store,
	logger *logging.Logger,
	authService *auth.Service,
	demandService *demand.Service,
	planService *plan.Service,
	supplierService *supplier.Service,
	auditService *audit.Service,
	notifications *notification.Dispatcher,
	cfg *config.Config,
) *Server {
	server := &Server{
		store:           store,
		logger:          logger,
		authService:     authService,
		demandService:   demandService,
		planService:     planService,
		supplierService: supplierService,
		auditService:    auditService,
		notifications:   notifications,
		config:          cfg,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware(logger))

	// Настройка CORS
	corsConfig := cors.DefaultConfig()
	if cfg.IsDebug != nil && *cfg.IsDebug {
		corsConfig.AllowOrigins = []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", csrfHeaderName}
	} else {
		if len(cfg.CORS.AllowedOrigins) > 0 {
			corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
		} else {
			logger.Warn("CORS allowed_origins не настроен в production, все origins запрещены")
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", csrfHeaderName}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS", "PUT", "PATCH", "DELETE"}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/home", server.HomeHandler)

	v1 := router.Group("/api/v1")
	{
		// Публичные auth-роуты
		v1.POST("/auth/login", LoginRateLimitMiddleware(loginRatePerSecond, loginBurst), server.loginHandler)
		// Refresh без CSRF: защищен через DB-валидацию refresh token и переустанавливает CSRF cookie
		v1.POST("/auth/refresh", server.refreshHandler)
		v1.POST("/auth/logout", CsrfMiddleware(), server.logoutHandler)

		protected := v1.Group("/")
		protected.Use(AuthMiddleware(server.config, server.authService))
		protected.Use(CsrfMiddleware())
		{
			protected.GET("/auth/me", server.meHandler)
			protected.GET("/stats", server.getStatsHandler)

			// Планы закупок (PCA)
			protected.GET("/plans", server.listPlansHandler)
			protected.GET("/plans/:id", server.getPlanHandler)
			protected.POST("/plans", RequireRole(auth.RoleAdmin, auth.RoleGestor), server.createPlanHandler)
			protected.PATCH("/plans/:id/status", RequireRole(auth.RoleAdmin, auth.RoleGestor), server.changePlanStatusHandler)

			// Заявки
			protected.GET("/demands", server.listDemandsHandler)
			protected.POST("/demands", server.createDemandHandler)
			protected.GET("/demands/:id", server.getDemandHandler)
			protected.PATCH("/demands/:id", server.updateDemandHandler)
			protected.DELETE("/demands/:id", server.deleteDemandHandler)

			// Позиции и котировки
			protected.POST("/demands/:id/items", server.addItemHandler)
			protected.PUT("/items/:id", server.updateItemHandler)
			protected.DELETE("/items/:id", server.deleteItemHandler)
			protected.GET("/items/:id/prices", server.listPricesHandler)
			protected.POST("/items/:id/prices", server.addPriceHandler)
			protected.POST("/items/:id/prices/batch", server.addPricesBatchHandler)
			protected.DELETE("/prices/:id", server.removePriceHandler)

			// Контрактация и смена статуса
			contracting := protected.Group("/demands/:id")
			contracting.Use(RequireRole(auth.RoleAdmin, auth.RoleGestor))
			{
				contracting.POST("/status", server.changeDemandStatusHandler)
				contracting.POST("/start-contracting", server.startContractingHandler)
				contracting.POST("/finalize-contract", server.finalizeContractHandler)
				contracting.POST("/suspend", server.suspendHandler)
				contracting.POST("/resume", server.resumeHandler)
				contracting.POST("/cancel", server.cancelHandler)
			}

			// Поставщики
			protected.GET("/suppliers", server.listSuppliersHandler)
			protected.GET("/suppliers/:id", server.getSupplierHandler)
			protected.POST("/suppliers", server.createSupplierHandler)
			protected.PUT("/suppliers/:id", server.updateSupplierHandler)
			protected.DELETE("/suppliers/:id", RequireRole(auth.RoleAdmin, auth.RoleGestor), server.deleteSupplierHandler)

			// Журнал и уведомления
			protected.GET("/audit-logs", server.listAuditLogsHandler)
			protected.GET("/notifications", server.listNotificationsHandler)
			protected.POST("/notifications/:id/read", server.markNotificationReadHandler)
		}

		admin := protected.Group("/admin")
		admin.Use(RequireRole(auth.RoleAdmin))
		{
			admin.GET("/users", server.listUsersHandler)
			admin.POST("/users", server.createUserHandler)
			admin.PATCH("/users/:id/role", server.updateUserRoleHandler)
		}
	}

	server.router = router
	return server
}

// Router отдает gin.Engine, например для http.Server в main
func (s *Server) Router() *gin.Engine {
	return s.router
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// handleServiceError переводит ошибки сервисов в HTTP-коды.
// Неизвестные ошибки логируются и отдаются как 500 без деталей.
func (s *Server) handleServiceError(c *gin.Context, err error) {
	var (
		notFound   *apierrors.NotFoundError
		validation *apierrors.ValidationError
		transition *apierrors.InvalidTransitionError
		forbidden  *apierrors.ForbiddenError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, errorResponse(err))
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, errorResponse(err))
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"current":   transition.Current,
			"requested": transition.Requested,
		})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, errorResponse(err))
	default:
		s.internalError(c, err, "внутренняя ошибка")
	}
}

// internalError логирует причину с request_id, клиенту детали не отдаются
func (s *Server) internalError(c *gin.Context, err error, msg string) {
	s.logger.WithField("request_id", c.GetString(requestIDKey)).Errorf("%s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
