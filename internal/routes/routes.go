// Package routes defines the API routing configuration.
// It builds the service graph and mounts every HTTP route with its
// middleware and authentication requirements.
package routes

import (
	"context"
	"fmt"

	"introspect/internal/config"
	"introspect/internal/events"
	"introspect/internal/handlers"
	"introspect/internal/introspection"
	"introspect/internal/middleware"
	"introspect/internal/models"
	"introspect/internal/repositories"
	"introspect/internal/repositories/cache"
	"introspect/internal/services/analysis"
	"introspect/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies are the long-lived clients the routes are built on.
// CacheService and Publisher may be nil.
type Dependencies struct {
	DB           *gorm.DB
	CacheService *cache.CacheService
	Publisher    events.Publisher
	Registry     *prometheus.Registry
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) error {
	self, err := models.PubkeyFromBase58(config.EngineProgramID())
	if err != nil {
		return fmt.Errorf("ENGINE_PROGRAM_ID: %w", err)
	}
	engine := introspection.NewEngine(self, introspection.DefaultPrograms())

	metrics, err := analysis.NewPrometheusCollector(deps.Registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var recordCache analysis.RecordCache
	if deps.CacheService != nil {
		recordCache = deps.CacheService
	}

	analysisService := analysis.NewService(
		repositories.NewIntrospectionRepository(deps.DB),
		engine,
		transfer.NewService(),
		recordCache,
		deps.Publisher,
		metrics,
	)
	introspectionHandler := handlers.NewIntrospectionHandler(analysisService)

	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if deps.CacheService != nil {
		checks["redis"] = deps.CacheService.HealthCheck
	}

	// Public endpoints
	app.Get("/health", handlers.NewHealthHandler(checks).HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	authMiddleware := middleware.NewAuthMiddleware(config.GetEnv("JWT_SECRET", "introspect"))

	api := app.Group("/api", authMiddleware.Handler)
	setupIntrospectionRoutes(api, introspectionHandler)
	return nil
}

func setupIntrospectionRoutes(router fiber.Router, h *handlers.IntrospectionHandler) {
	introspect := router.Group("/introspect")

	introspect.Post("/", h.Process)
	introspect.Post("/preview", h.Preview)
	introspect.Get("/records", h.Records)
}
