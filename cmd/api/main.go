package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chat-service/internal/api/http"
	"github.com/spec-kit/chat-service/internal/api/http/handlers"
	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/mail"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/persistence"
	"github.com/spec-kit/chat-service/internal/realtime"
	"github.com/spec-kit/chat-service/internal/repository"
	"github.com/spec-kit/chat-service/internal/service"
	"github.com/spec-kit/chat-service/internal/storage"
	"github.com/spec-kit/chat-service/internal/worker"
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

	metrics, err := observability.NewMetrics("chat")
	if err != nil {
		logger.Fatal("failed to init metrics", zap.Error(err))
	}

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

	redis, err := persistence.NewRedis(ctx, cfg.Redis, cfg.Registration.PendingStore == config.PendingStoreRedis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	questionRepo := repository.NewVivaQuestionRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	var pendingStore repository.PendingRegistrationStore
	switch cfg.Registration.PendingStore {
	case config.PendingStoreRedis:
		retention := time.Duration(cfg.Registration.RedisRetentionSeconds) * time.Second
		pendingStore = repository.NewRedisPendingStore(redis.Client, cfg.Registration.RedisPrefix, retention)
	default:
		pendingStore = repository.NewMemoryPendingStore()
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init file storage", zap.Error(err))
	}

	mailer, err := mail.New(cfg.Mail, logger)
	if err != nil {
		logger.Fatal("failed to init mailer", zap.Error(err))
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	if _, err := service.EnsureAdmin(ctx, userRepo, hasher, cfg.Admin, logger); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	hub := realtime.NewHub(cfg.Realtime, logger, metrics)
	hub.Attach(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, mailer, logger, metrics, cfg.Mail.Timeout(), cfg.Registration.OTPTTL())

	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		Users:      userRepo,
		Pending:    pendingStore,
		Hasher:     hasher,
		Dispatcher: dispatcher,
		Logger:     logger,
		OTPTTL:     cfg.Registration.OTPTTL(),
	})
	authService := service.NewAuthService(userRepo, hasher, tokens)
	moderationService := service.NewModerationService(userRepo, dispatcher, logger)
	boardService := service.NewBoardService(service.BoardDependencies{
		Messages:   messageRepo,
		Questions:  questionRepo,
		Files:      files,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	settingsService := service.NewSettingsService(settingRepo, dispatcher, logger)

	sweeper := worker.NewPendingSweeper(pendingStore, cfg.Registration.SweepInterval(), logger)
	background := worker.NewBackground(notificationService, sweeper)
	background.Start(ctx)

	deps := map[string]handlers.Pinger{"postgres": pg}
	if redis.Enabled() {
		deps["redis"] = redis
	}

	uploadsDir := ""
	if disk, ok := files.(*storage.DiskStore); ok {
		uploadsDir = disk.Dir()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigin)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Users:      handlers.NewUsersHandler(registrationService, authService),
		Moderation: handlers.NewModerationHandler(moderationService),
		Board:      handlers.NewBoardHandler(boardService),
		Settings:   handlers.NewSettingsHandler(settingsService),
		Socket:     handlers.NewSocketHandler(hub, logger),
		Metrics:    metrics,
		AdminGuard: auth.AdminGuard(auth.NewAuthMiddleware(tokens, userRepo), cfg.Auth.RequireAdminToken),
		UploadsDir: uploadsDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	hub.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	background.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
