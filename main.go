package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fitness-duel-system/auth"
	"fitness-duel-system/config"
	"fitness-duel-system/database"
	"fitness-duel-system/handlers"
	"fitness-duel-system/locker"
	"fitness-duel-system/middleware"
	"fitness-duel-system/repository"
	"fitness-duel-system/services"
	"fitness-duel-system/utils"
	"fitness-duel-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := utils.InitLogger(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenPostgres(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	var locks locker.Locker = locker.NewKeyedMutex()
	rdb, err := database.OpenRedis(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		locks = locker.NewRedisLocker(rdb, cfg.LockTTL, logger)
		logger.Info("using redis duel locks")
	}

	var archive services.Archiver
	r2, err := utils.NewR2Archiver(ctx, cfg.R2)
	if err != nil {
		logger.Fatal("failed to initialize R2 client", zap.Error(err))
	}
	if r2 != nil {
		archive = r2
		logger.Info("finished duels will be archived", zap.String("bucket", cfg.R2.Bucket))
	}

	userRepo := repository.NewUserRepository(db)
	duelRepo := repository.NewDuelRepository(db, logger)
	historyRepo := repository.NewProgressHistoryRepository(db)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(userRepo, tokens, auth.NewPasswords(), logger)
	duelService := services.NewDuelService(duelRepo, userRepo, locks, archive, logger)
	progressService := services.NewProgressService(userRepo, duelRepo, historyRepo, locks, logger)

	syncWorker := workers.NewDuelSyncWorker(duelRepo, progressService, cfg.DuelSyncInterval, logger)
	if err := syncWorker.Start(ctx); err != nil {
		logger.Fatal("failed to start duel sync worker", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "fitness-duel-system",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins(), ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	requireUser := middleware.BearerAuth(tokens, logger)
	handlers.SetupUserRoutes(app, userService, requireUser, logger)
	handlers.SetupProgressRoutes(app, progressService, requireUser, logger)
	handlers.SetupDuelRoutes(app, duelService, requireUser, logger)
	handlers.SetupInternalRoutes(app, progressService, middleware.ServiceToken(cfg.ServiceToken, logger), logger)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()
	logger.Info("server running",
		zap.Int("port", cfg.Port),
		zap.Strings("allowed_origins", cfg.Origins()),
		zap.Duration("duel_sync_interval", cfg.DuelSyncInterval),
	)

	<-ctx.Done()
	logger.Info("shutting down server")

	if err := syncWorker.Stop(); err != nil {
		logger.Warn("failed to stop duel sync worker", zap.Error(err))
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
}
