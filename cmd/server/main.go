// Package main is the entry point for the marketops API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketops/internal/domain/auth"
	"marketops/internal/domain/dashboard"
	"marketops/internal/domain/sources"
	v1 "marketops/internal/infrastructure/http/v1"
	"marketops/internal/infrastructure/http/v1/middleware"
	"marketops/internal/infrastructure/storage/postgres"
	"marketops/internal/infrastructure/storage/postgres/dashboard_repo"
	"marketops/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting marketops server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Schema registry ---
	schemaRegistry := dashboard.NewSchemaRegistry()
	sources.Register(schemaRegistry)

	metadataRegistry := setupMetadataRegistry()
	for _, schema := range dashboard.SchemasFromRegistry(metadataRegistry) {
		schemaRegistry.RegisterAuto(schema)
	}
	log.Infow("schema registry initialized", "schemas", len(schemaRegistry.List()))

	// --- Dashboard service ---
	queryRepo := dashboard_repo.NewRepo(pool)
	configRepo, err := dashboard_repo.NewConfigRepo(pool)
	if err != nil {
		log.Fatalw("failed to initialize config repository", "error", err)
	}
	dashboardService := dashboard.NewService(schemaRegistry, queryRepo, configRepo)

	// --- JWT Validator (optional) ---
	var jwtValidator middleware.JWTValidator
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		jwtValidator = auth.NewJWTService(auth.DefaultJWTConfig(secret))
		log.Info("JWT authentication enabled")
	} else {
		log.Warn("JWT_SECRET not set, API runs without authentication")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtValidator,
		DashboardService: dashboardService,
		MetadataRegistry: metadataRegistry,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
