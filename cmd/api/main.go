package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helpdesk-kit/sla-service/internal/api/http"
	"github.com/helpdesk-kit/sla-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/sla-service/internal/auth"
	"github.com/helpdesk-kit/sla-service/internal/config"
	"github.com/helpdesk-kit/sla-service/internal/events"
	"github.com/helpdesk-kit/sla-service/internal/observability"
	"github.com/helpdesk-kit/sla-service/internal/persistence"
	"github.com/helpdesk-kit/sla-service/internal/repository"
	"github.com/helpdesk-kit/sla-service/internal/service"
	"github.com/helpdesk-kit/sla-service/internal/worker"
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

	rds := persistence.NewRedis(cfg.Redis, logger)
	defer rds.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	auditLogRepo := repository.NewAuditLogRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	policyRepo := repository.NewSLAPolicyRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	policyService := service.NewPolicyService(policyRepo, dispatcher)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		AuditLogRepo:   auditLogRepo,
		ClientRepo:     clientRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		Policies:       policyService,
		Dispatcher:     dispatcher,
	})
	metricsService := service.NewMetricsService(reportRepo, rds.Client, logger)
	metricsService.RegisterInvalidation(dispatcher)
	reportService := service.NewReportService(reportRepo)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	requestMetrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, requestMetrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rds),
		Users:          handlers.NewUsersHandler(authService),
		Clients:        handlers.NewClientsHandler(clientRepo),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		SLAConfig:      handlers.NewSLAConfigHandler(policyService),
		Reports:        handlers.NewReportsHandler(metricsService, reportService),
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
