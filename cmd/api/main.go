package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/olivernygren/sponge-boss/internal/api/http"
	"github.com/olivernygren/sponge-boss/internal/api/http/handlers"
	"github.com/olivernygren/sponge-boss/internal/auth"
	"github.com/olivernygren/sponge-boss/internal/config"
	"github.com/olivernygren/sponge-boss/internal/events"
	"github.com/olivernygren/sponge-boss/internal/observability"
	"github.com/olivernygren/sponge-boss/internal/persistence"
	"github.com/olivernygren/sponge-boss/internal/repository"
	"github.com/olivernygren/sponge-boss/internal/service"
	"github.com/olivernygren/sponge-boss/internal/view"
	"github.com/olivernygren/sponge-boss/internal/worker"
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
	checklistRepo := repository.NewChecklistRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	provider, err := auth.NewGoogleProvider(ctx, cfg.Google, cfg.App.RedirectURL())
	if err != nil {
		logger.Fatal("failed to init identity provider", zap.Error(err))
	}

	tokens := auth.NewSessionTokenManager(cfg.Session.Secret, cfg.Session.TTL())
	dispatcher := events.NewInMemoryDispatcher()
	pageCache := view.NewCache(redis.Client, cfg.View.CacheTTL())
	worker.StartInvalidationWorker(dispatcher, pageCache, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		Provider:    provider,
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Tokens:      tokens,
		Logger:      logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:      userRepo,
		ChecklistRepo: checklistRepo,
		Dispatcher:    dispatcher,
	})

	sessionMiddleware := auth.NewSessionMiddleware(tokens, sessionRepo, userRepo, cfg.Session.CookieName)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	app.Static("/static", "./static")
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, pg, redis),
		Auth:              handlers.NewAuthHandler(authService, cfg.Session),
		Admin:             handlers.NewAdminHandler(adminService),
		Pages:             handlers.NewPagesHandler(adminService, pageCache),
		SessionMiddleware: sessionMiddleware,
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
