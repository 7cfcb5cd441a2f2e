package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/api"
	"github.com/golfgang/backend/internal/api/handlers"
	"github.com/golfgang/backend/internal/auth"
	"github.com/golfgang/backend/internal/config"
	"github.com/golfgang/backend/internal/database"
	"github.com/golfgang/backend/internal/game"
	"github.com/golfgang/backend/internal/logger"
	"github.com/golfgang/backend/internal/migrations"
	"github.com/golfgang/backend/internal/redis"
	"github.com/golfgang/backend/internal/store"
	"github.com/golfgang/backend/internal/ws"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.Environment)
	if envErr != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := api.Deps{
		Config: cfg,
		Issuer: auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL()),
		Services: map[string]handlers.Pinger{
			"postgres": nil,
			"redis":    nil,
		},
	}
	var recorders store.Multi

	// Postgres keeps the game history
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			log.Info().Str("component", "db").Msg("running DB migrations on startup")
			if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				log.Fatal().Err(err).Msg("Failed to run migrations")
			}
		}

		pg := store.NewPostgresStore(db)
		recorders = append(recorders, pg)
		deps.History = pg
		deps.Services["postgres"] = handlers.PingFunc(db.PingContext)
	} else {
		log.Warn().Str("component", "db").Msg("DATABASE_URL not set, game history disabled")
	}

	// Redis keeps stats, leaderboards and recent scorecards
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		rs := store.NewRedisStore(rdb, cfg.ResultTTL())
		recorders = append(recorders, rs)
		deps.Stats = rs
		deps.Services["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	} else {
		log.Warn().Str("component", "redis").Msg("REDIS_URL not set, leaderboards disabled")
	}

	opts := []game.Option{game.WithMaxPlayers(cfg.MaxPlayersPerRoom)}
	if len(recorders) > 0 {
		opts = append(opts, game.WithRecorder(recorders))
	}
	manager := game.NewGameManager(game.DefaultCourse(), opts...)
	deps.Manager = manager

	hub := ws.NewHub(manager, ws.Options{
		ReadLimit:         int64(cfg.WSReadLimitBytes),
		MessagesPerSecond: float64(cfg.WSMessagesPerSecond),
		MessageBurst:      cfg.WSMessageBurst,
	})
	deps.Hub = hub
	go hub.Run(ctx)

	scheduler := game.NewScheduler(manager, hub, cfg.TickInterval(), cfg.TurnTimeout())
	go scheduler.Run(ctx)

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("course", manager.Course().Name).Msg("Starting Golf Gang server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
