package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/arturoeanton/go-social-front/internal/adapter/noroff"
	"github.com/arturoeanton/go-social-front/internal/adapter/store"
	"github.com/arturoeanton/go-social-front/internal/handler"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/arturoeanton/go-social-front/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting social front end",
		"port", cfg.Port,
		"api", cfg.APIBaseURL,
		"api_key_set", cfg.APIKey != "",
		"postgres", cfg.UsesPostgres(),
	)

	// ── Session + audit storage ──────────────────────────────────────────
	var (
		sessions port.SessionStore
		audit    middleware.AuditWriter = middleware.LogAuditWriter{}
		auditLog handler.AuditLister
	)
	if cfg.UsesPostgres() {
		pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = pgStore.EnsureSchema(ctx)
		cancel()
		if err != nil {
			slog.Error("failed to create schema", "error", err)
			os.Exit(1)
		}
		sessions, audit, auditLog = pgStore, pgStore, pgStore
	} else {
		slog.Warn("DATABASE_URL not set, sessions are kept in memory")
		sessions = store.NewMemoryStore()
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	api := noroff.NewClient(cfg.APIBaseURL, cfg.APIKey)
	manager := session.NewManager(sessions, cfg.SessionCookie, cfg.CookieSecure)

	engine, err := view.NewEngine()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// ── Fiber App ────────────────────────────────────────────────────────
	fiberCfg := handler.FiberConfig(engine)
	fiberCfg.AppName = cfg.AppName
	fiberCfg.ReadTimeout = 30 * time.Second
	fiberCfg.WriteTimeout = 30 * time.Second
	app := fiber.New(fiberCfg)

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(audit))

	// ── Public Routes ────────────────────────────────────────────────────
	app.Get("/static*", static.New("", static.Config{FS: view.Static()}))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Pages + protected API ────────────────────────────────────────────
	handler.Mount(app, handler.Deps{
		API:          api,
		Sessions:     manager,
		Audit:        audit,
		AuditLog:     auditLog,
		FeedPageSize: cfg.FeedPageSize,
	})

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
