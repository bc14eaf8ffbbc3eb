package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/identity-service/internal/api/http"
	"github.com/spec-kit/identity-service/internal/api/http/handlers"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/observability"
	"github.com/spec-kit/identity-service/internal/persistence"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/seed"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/internal/storage"
	"github.com/spec-kit/identity-service/internal/worker"
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

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	if err := mongo.EnsureIndexes(ctx, logger); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	avatars, err := storage.NewAvatarStore(ctx, cfg.ObjectStore, logger)
	if err != nil {
		logger.Warn("avatar storage unavailable", zap.Error(err))
		avatars = nil
	}

	userRepo := repository.NewUserRepository(mongo)
	roleRepo := repository.NewRoleRepository(mongo)
	auditRepo := repository.NewAuditRepository(mongo)
	denylist := repository.NewTokenDenylist(redis)

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, *cfg, userRepo, roleRepo, logger); err != nil {
			logger.Fatal("failed to seed baseline data", zap.Error(err))
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, auditRepo, logger)
	worker.StartAuditWorker(auditService)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Denylist:   denylist,
		Dispatcher: dispatcher,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}

	userService := service.NewUserService(cfg.Auth.BcryptCost, service.UserDependencies{
		UserRepo:   userRepo,
		RoleRepo:   roleRepo,
		Avatars:    avatars,
		Dispatcher: dispatcher,
	})
	roleService := service.NewRoleService(roleRepo, dispatcher)

	resolver := auth.NewResolver(roleRepo)
	gates := auth.NewMiddleware(authService.Codec(), resolver, logger)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis),
		Auth:   handlers.NewAuthHandler(authService, userService),
		Users:  handlers.NewUsersHandler(userService),
		Roles:  handlers.NewRolesHandler(roleService),
		Gates:  gates,
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
