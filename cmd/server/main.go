// Package main is the entry point for the introspection API.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"log"
	"time"

	"introspect/internal/config"
	"introspect/internal/events"
	"introspect/internal/repositories"
	"introspect/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	config.LoadEnv()

	// PostgreSQL + Redis
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database with connection pooling")

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
			if repositories.CacheService != nil {
				pool := repositories.CacheService.GetStats()
				log.Printf("Redis Stats: Hits=%d, Misses=%d, Timeouts=%d, Total=%d, Idle=%d, Stale=%d",
					pool.Hits, pool.Misses, pool.Timeouts, pool.TotalConns, pool.IdleConns, pool.StaleConns)
			}
		}
	}()

	var publisher events.Publisher = events.NoopPublisher{}
	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		kp, err := events.NewKafkaPublisher(brokers, config.GetEnv("KAFKA_TOPIC", "introspection.events"))
		if err != nil {
			log.Fatalf("Failed to create kafka publisher: %v", err)
		}
		publisher = kp
		log.Printf("✅ Publishing introspection events to %s", brokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("⚠️ Failed to close event publisher: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := fiber.New()

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/introspect", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("RATE_LIMIT_PER_MINUTE", 60),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	if err := routes.SetupRoutes(app, routes.Dependencies{
		DB:           repositories.DB,
		CacheService: repositories.CacheService,
		Publisher:    publisher,
		Registry:     reg,
	}); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
