package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/AaronAmha/HomeManagement/internal/api/http"
	"github.com/AaronAmha/HomeManagement/internal/api/http/handlers"
	"github.com/AaronAmha/HomeManagement/internal/auth"
	"github.com/AaronAmha/HomeManagement/internal/config"
	"github.com/AaronAmha/HomeManagement/internal/events"
	"github.com/AaronAmha/HomeManagement/internal/observability"
	"github.com/AaronAmha/HomeManagement/internal/persistence"
	"github.com/AaronAmha/HomeManagement/internal/repository"
	"github.com/AaronAmha/HomeManagement/internal/service"
	"github.com/AaronAmha/HomeManagement/internal/sms"
	"github.com/AaronAmha/HomeManagement/internal/triage"
	"github.com/AaronAmha/HomeManagement/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	tenantRepo := repository.NewTenantRepository(pool)
	landlordRepo := repository.NewLandlordRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)
	unknownRepo := repository.NewUnknownMessageRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	// The SMS client is constructed once at startup; without full
	// credentials, notification degrades to a logging noop.
	var messenger sms.Messenger
	if cfg.Twilio.Configured() {
		messenger = sms.NewTwilioMessenger(cfg.Twilio)
	} else {
		logger.Warn("sms transport not fully configured; landlord notifications disabled")
		messenger = &sms.NoopMessenger{Logger: logger}
	}

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		TenantRepo:         tenantRepo,
		LandlordRepo:       landlordRepo,
		TicketRepo:         ticketRepo,
		MessageRepo:        messageRepo,
		UnknownMessageRepo: unknownRepo,
		Classifier:         triage.NewModelClassifier(cfg.Triage),
		Messenger:          messenger,
		Dispatcher:         dispatcher,
		Logger:             logger,
		Metrics:            metrics,
	})

	authService := service.NewAuthService(cfg.Auth, operatorRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo)
	queryService := service.NewTicketQueryService(ticketRepo, messageRepo)

	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	deduper := persistence.NewMessageDeduper(redis, 0)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Webhook:        handlers.NewWebhookHandler(intakeService, deduper, logger, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(queryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
