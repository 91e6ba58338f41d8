package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/zhukovvlad/procurement-go/cmd/internal/config"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/server"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/auth"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/demand"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/notification"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/plan"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/pricing"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/supplier"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/valuation"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := logging.GetLogger()
	logger.Info("Starting Procurement API...")

	if err := godotenv.Load(); err != nil {
		logger.Warnf("файл .env не загружен: %v", err)
	}

	cfg := config.GetConfig()

	conn, err := sql.Open(cfg.Database.Driver, cfg.Database.Source)
	if err != nil {
		logger.Fatalf("error connecting to database: %v", err)
	}
	defer conn.Close()

	if err = conn.Ping(); err != nil {
		logger.Fatalf("error pinging database: %v", err)
	}
	logger.Info("Database connection established")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := db.NewStore(conn)

	auditService := audit.NewService(store, logger.GetLoggerWithField("service", "audit"))

	// воркер уведомлений переживает отмену ctx, чтобы дописать очередь при остановке
	notifications := notification.NewDispatcher(store, cfg.Pricing.NotificationQueueSize, logger.GetLoggerWithField("service", "notification"))
	notifications.Start(context.WithoutCancel(ctx))

	minQuotations := cfg.Pricing.MinQuotationsPerItem
	if minQuotations <= 0 {
		minQuotations = lifecycle.MinQuotationsPerItem
	}
	lifecycleService := lifecycle.NewService(store, auditService, notifications, minQuotations, logger.GetLoggerWithField("service", "lifecycle"))
	valuationService := valuation.NewService(store, pricing.NewClassifier(time.Now), lifecycleService, logger.GetLoggerWithField("service", "valuation"))

	srv := server.NewServer(
		store,
		logger,
		auth.NewService(store, cfg, auditService, logger.GetLoggerWithField("service", "auth")),
		demand.NewService(store, lifecycleService, valuationService, auditService, logger.GetLoggerWithField("service", "demand")),
		plan.NewService(store, auditService, logger.GetLoggerWithField("service", "plan")),
		supplier.NewService(store, auditService, logger.GetLoggerWithField("service", "supplier")),
		auditService,
		notifications,
		cfg,
	)

	serverAddress := fmt.Sprintf("%s:%s", cfg.Listen.BindIP, cfg.Listen.Port)
	httpServer := &http.Server{
		Addr:              serverAddress,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Starting server on %s", serverAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("остановка сервера...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("server error: %v", err)
	}

	notifications.Close()
	logger.Info("сервер остановлен")
}
