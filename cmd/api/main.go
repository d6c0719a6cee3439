package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"
	"go-inventory-ledger/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Config & logging
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.IsProduction())

	// 2. Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle unavailable")
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Repositories & seed data
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	dashRepo := repository.NewDashboardRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)

	if err := service.SeedDefaults(ctx, privilegeRepo, roleRepo, userRepo, cfg.Seed); err != nil {
		log.Fatal().Err(err).Msg("seeding defaults failed")
	}

	// 4. WebSocket hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	// 5. Services
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	ledger := service.NewLedgerService(db, productRepo, txRepo, hub, service.LedgerOptions{
		LockStrategy:    cfg.Ledger.LockStrategy,
		ConflictRetries: cfg.Ledger.ConflictRetries,
	})
	queries := service.NewQueryService(productRepo, txRepo, dashRepo)

	// 6. HTTP
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	handler.RegisterRoutes(app, handler.Dependencies{
		Auth:       service.NewAuthService(userRepo, tokens),
		Authorizer: service.NewAuthorizer(userRepo),
		Ledger:     ledger,
		Queries:    queries,
		Products:   service.NewProductService(productRepo, txRepo, categoryRepo, ledger),
		Users:      service.NewUserService(userRepo, roleRepo),
		Hub:        hub,
		Ping:       sqlDB.PingContext,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("lock_strategy", cfg.Ledger.LockStrategy).Msg("server started")

	// 7. Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
