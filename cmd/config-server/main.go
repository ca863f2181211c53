// Package main provides the configuration API server entry point.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/vmforge/configapi/internal/db"
	"github.com/vmforge/configapi/pkg/audit"
	"github.com/vmforge/configapi/pkg/authz"
	"github.com/vmforge/configapi/pkg/registry"
	"github.com/vmforge/configapi/pkg/storage"
)

func main() {
	var (
		listenAddr    string
		dbType        string
		dbDSN         string
		iconDir       string
		strictNetwork bool
		seed          bool
	)

	// A .env file is optional; flags and real env vars win.
	_ = godotenv.Load()

	flag.StringVar(&listenAddr, "listen", envOrDefault("CONFIGAPI_LISTEN", ":8080"), "Address to listen on")
	flag.StringVar(&dbType, "db-type", envOrDefault("CONFIGAPI_DB_TYPE", "sqlite"), "Database type (postgres, mysql or sqlite)")
	flag.StringVar(&dbDSN, "db-dsn", envOrDefault("CONFIGAPI_DB_DSN", "configapi.db"), "Database connection string")
	flag.StringVar(&iconDir, "icon-dir", envOrDefault("CONFIGAPI_ICON_DIR", "icons"), "Directory for uploaded catalog icons")
	flag.BoolVar(&strictNetwork, "strict-network-revalidation", false, "Re-validate availableNetwork membership on location-only updates")
	flag.BoolVar(&seed, "seed", false, "Insert a starter dataset and exit")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting config server",
		"listen", listenAddr,
		"dbType", dbType,
		"iconDir", iconDir,
	)

	gormDB, err := db.Connect(dbType, dbDSN)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	icons, err := storage.NewIconStore(iconDir, logger)
	if err != nil {
		logger.Error("icon store setup failed", "error", err)
		os.Exit(1)
	}
	defer icons.Close()

	reg := registry.New(gormDB,
		registry.WithLogger(logger),
		registry.WithIconStore(icons),
		registry.WithStrictNetworkRevalidation(strictNetwork),
	)
	if err := reg.AutoMigrate(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if seed {
		if err := seedStarterData(reg); err != nil {
			logger.Error("seed failed", "error", err)
			os.Exit(1)
		}
		logger.Info("starter dataset inserted")
		return
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", registry.HeaderFields, registry.HeaderSort, "X-Remote-User", "X-Remote-Group"},
	}))
	router.Use(authz.IdentityMiddleware())
	router.Use(audit.RequestLogger(logger))
	router.Mount("/", reg.Routes(authz.AllowAll{}))

	server := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", listenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
