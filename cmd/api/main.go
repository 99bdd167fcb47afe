package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/caseflow/helpdesk/internal/api/http"
	"github.com/caseflow/helpdesk/internal/api/http/handlers"
	"github.com/caseflow/helpdesk/internal/auth"
	"github.com/caseflow/helpdesk/internal/config"
	"github.com/caseflow/helpdesk/internal/events"
	"github.com/caseflow/helpdesk/internal/llm"
	"github.com/caseflow/helpdesk/internal/observability"
	"github.com/caseflow/helpdesk/internal/persistence"
	"github.com/caseflow/helpdesk/internal/repository"
	"github.com/caseflow/helpdesk/internal/service"
	"github.com/caseflow/helpdesk/internal/worker"
	"github.com/caseflow/helpdesk/internal/workflow"
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
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	conversationRepo := repository.NewConversationRepository(redis.Client, cfg.Chatbot.ConversationTTL())

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokenManager, userRepo)

	engine := workflow.NewEngine(cfg.Workflow.AllowReopen)
	provider := llm.NewOpenAIProvider(cfg.LLM)

	authService := service.NewAuthService(userRepo, tokenManager, cfg.Auth.BcryptCost)
	ticketService := service.NewTicketService(ticketRepo, commentRepo, userRepo, engine, dispatcher)
	knowledgeService := service.NewKnowledgeService(articleRepo)
	chatbotService := service.NewChatbotService(provider, ticketService, commentRepo, conversationRepo, logger, cfg.LLM)

	notificationService := service.NewNotificationService(logger, cfg.Notification)
	notificationService.RegisterHandlers(dispatcher)
	workerDone := worker.StartNotificationWorker(ctx, notificationService, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Knowledge:      handlers.NewKnowledgeHandler(knowledgeService),
		Chatbot:        handlers.NewChatbotHandler(chatbotService, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
