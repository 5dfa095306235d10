package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"purchase-sale-backend/internal/auth"
	"purchase-sale-backend/internal/config"
	"purchase-sale-backend/internal/database"
	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/logger"
	"purchase-sale-backend/internal/session"
	"purchase-sale-backend/internal/trade"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	srvLog := logger.WithComponent("server")

	if err := cfg.ValidateServer(); err != nil {
		srvLog.Fatal().Err(err).Msg("Invalid server configuration")
	}
	for _, w := range cfg.Warnings() {
		srvLog.Warn().Msg(w)
	}

	var persister form.Persister
	if cfg.DatabaseDSN != "" {
		db, err := database.Open(cfg.DatabaseDSN)
		if err != nil {
			srvLog.Fatal().Err(err).Msg("Database unavailable")
		}
		persister = database.NewGormPersister(db)
	} else {
		persister = database.NewLogPersister()
	}

	sessions := session.NewRegistry(cfg.SessionTTL, func(id string) *form.Controller {
		return form.NewController(persister,
			form.WithAddRowKey(cfg.AddRowKey),
			form.WithLogger(logger.WithSession("form", id)),
		)
	})
	go pruneSessions(sessions, 10*time.Minute)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			srvLog.Error().Err(err).Str("path", c.Path()).Msg("Unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.AllowedOrigins(), ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/session", auth.LoginHandler(cfg, sessions))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg, sessions))

	protected.Delete("/session", auth.LogoutHandler(sessions))
	trade.RegisterRoutes(protected)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		srvLog.Info().Msg("Shutting down")
		if err := app.Shutdown(); err != nil {
			srvLog.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	srvLog.Info().Str("port", cfg.HTTPPort).Msg("Server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		srvLog.Fatal().Err(err).Msg("Server stopped")
	}
}

func pruneSessions(sessions *session.Registry, every time.Duration) {
	log := logger.WithComponent("session")
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		if n := sessions.Prune(); n > 0 {
			log.Info().Int("removed", n).Int("open", sessions.Len()).Msg("Expired sessions pruned")
		}
	}
}
