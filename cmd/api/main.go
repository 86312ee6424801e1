package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farestore/docs"
	"farestore/internal/config"
	"farestore/internal/database"
	"farestore/internal/database/migration"
	handlers "farestore/internal/http/handler"
	"farestore/internal/http/middleware"
	"farestore/internal/otel"
	"farestore/internal/repository/postgres"
	"farestore/internal/service"
	"farestore/internal/storage"
)

// @title Farestore API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing; shutdown flushes pending spans on exit
	shutdownTracing, err := otel.Init(ctx, time.UTC, cfg.ProjectID)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run startup migrations for the artifact registry
	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// The server assumes the bucket exists; `farectl setup` creates it, but
	// ensuring here keeps a fresh deployment usable out of the box.
	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := objStore.EnsureBucket(ensureCtx, cfg.Storage.Region); err != nil {
		cancel()
		log.Fatalf("failed to ensure bucket: %v", err)
	}
	cancel()

	// Initialize repositories and services
	artifactRepo := postgres.NewArtifactPostgres(db)
	artifactSvc := service.NewArtifactService(objStore, artifactRepo, cfg.ProjectID)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Distributed tracing for incoming requests
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, artifactSvc, cfg.Model)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
