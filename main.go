package main

import (
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"tasktracker-backend/auth"
	"tasktracker-backend/config"
	"tasktracker-backend/controllers"
	"tasktracker-backend/database"
	"tasktracker-backend/middlewares"
	"tasktracker-backend/routes"
	"tasktracker-backend/services"
	"tasktracker-backend/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.DatabaseDSN == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}
	if cfg.JWKSURL == "" {
		logger.Fatal().Msg("AUTH_JWKS_URL is not set")
	}

	// ---- Database (bounded pool, injected handle)
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("could not migrate database")
	}

	// ---- Token verification (key cache + verifier, constructed once)
	keySet := auth.NewKeySet(cfg.JWKSURL, cfg.JWKSRefresh, &http.Client{Timeout: cfg.JWKSFetchTimeout})
	verifier := auth.NewVerifier(keySet, cfg.TokenAlgorithm)

	// ---- Task stack
	taskStore := store.NewGormTaskStore(db, cfg.StorageTimeout)
	taskService := services.NewTaskService(taskStore)

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.NewErrorHandler(logger),
		BodyLimit:    cfg.BodyLimitBytes,
	})

	app.Use(middlewares.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Register(app, routes.Deps{
		Tasks:    controllers.NewTaskController(taskService),
		Verifier: verifier,
	})

	logger.Info().Str("port", cfg.Port).Msg("starting API server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
