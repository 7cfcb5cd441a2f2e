package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/admin"
	"github.com/golfgang/backend/internal/config"
	"github.com/golfgang/backend/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.Environment)

	token := os.Getenv("ADMIN_TOKEN")
	if len(os.Args) > 1 {
		token = os.Args[1]
	}
	if token == "" {
		log.Fatal().Msg("Pass the admin token as an argument or set ADMIN_TOKEN")
	}
	if len(token) < 16 {
		log.Warn().Int("length", len(token)).Msg("Admin token is short, use at least 16 characters in production")
	}

	hash, err := admin.HashAdminToken(token)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash admin token")
	}

	log.Info().Msg("Set the following in the server environment")
	fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
}
