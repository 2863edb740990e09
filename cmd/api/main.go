package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/repair-service/internal/api/http"
	"github.com/spec-kit/repair-service/internal/api/http/handlers"
	"github.com/spec-kit/repair-service/internal/auth"
	"github.com/spec-kit/repair-service/internal/badge"
	"github.com/spec-kit/repair-service/internal/config"
	"github.com/spec-kit/repair-service/internal/events"
	"github.com/spec-kit/repair-service/internal/observability"
	"github.com/spec-kit/repair-service/internal/persistence"
	"github.com/spec-kit/repair-service/internal/repository"
	"github.com/spec-kit/repair-service/internal/service"
	"github.com/spec-kit/repair-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backends, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer backends.Close()

	seeded, err := repository.SeedIfEmpty(ctx, backends.Collections, cfg.Auth.SeedAdminPIN)
	if err != nil {
		logger.Fatal("failed to seed store", zap.Error(err))
	}
	if seeded.Admin != nil {
		logger.Info("seeded default administrator", zap.String("user_id", seeded.Admin.ID))
	}

	userRepo := repository.NewUserRepository(backends.Collections)
	ticketRepo := repository.NewTicketRepository(backends.Collections)
	sessionRepo := repository.NewSessionRepository(backends.Sessions, cfg.Session.TTL())

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifyWorker := worker.StartNotificationWorker(ctx, notificationService, dispatcher, logger)

	reader := badge.NewQueue()
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Tokens:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Session.TTL()),
		Transport:   reader,
		ScanTimeout: cfg.Badge.ScanTimeout(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:   userRepo,
		Transport:  reader,
		HashPINs:   cfg.Auth.HashPINs,
		BcryptCost: cfg.Auth.BcryptCost,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	probes := map[string]persistence.Backend{"store": backends.Collections}
	if backends.Sessions != backends.Collections {
		probes["sessions"] = backends.Sessions
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, probes, metrics),
		Login:     handlers.NewLoginHandler(authService, reader),
		Dashboard: handlers.NewDashboardHandler(ticketService),
		Admin:     handlers.NewAdminHandler(adminService),
		Session:   auth.NewSessionMiddleware(authService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	notifyWorker.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
