package main

import (
	"context"
	"flag"
	"os"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// reset-password sets a user's password directly in the database and revokes
// the user's sessions.
func main() {
	email := flag.String("email", "", "email of the user to reset (defaults to ADMIN_EMAIL)")
	password := flag.String("password", "", "new password (defaults to ADMIN_PASSWORD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.IsProduction())

	if *email == "" {
		*email = cfg.Seed.AdminEmail
	}
	if *password == "" {
		*password = cfg.Seed.AdminPassword
	}
	if len(*password) < 6 {
		log.Error().Msg("password must be at least 6 characters")
		os.Exit(2)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)

	user, err := userRepo.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found")
	}
	if err := user.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	if err := userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}
	if err := userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
		log.Fatal().Err(err).Msg("failed to revoke sessions")
	}

	log.Info().Str("email", *email).Msg("password reset, existing sessions revoked")
}
