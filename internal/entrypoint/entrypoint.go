package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/auth"
	"github.com/booklore/homeshelf/internal/backup"
	"github.com/booklore/homeshelf/internal/config"
	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/database/books"
	"github.com/booklore/homeshelf/internal/database/categories"
	"github.com/booklore/homeshelf/internal/database/shelf"
	"github.com/booklore/homeshelf/internal/database/stats"
	http_controllers "github.com/booklore/homeshelf/internal/http"
	"github.com/booklore/homeshelf/internal/isbn"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the whole service together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting HomeShelf v%s", version)

	if cfg.Site.Version == "dev" && version != "" {
		cfg.Site.Version = version
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	authService, err := auth.NewService(cfg.Admin)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	rateLimiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})

	var isbnClient *isbn.Client
	if cfg.ISBN.APIKey != "" {
		isbnClient = isbn.NewClient(cfg.ISBN.BaseURL, cfg.ISBN.APIKey)
	} else {
		log.Printf("WARNING: ISBN API key is not set. ISBN lookup endpoint will be disabled. Set 'ISBN_API_KEY' environment variable to enable.")
	}

	backups := backup.NewService(cfg.Database.Path, cfg.Backup.Dir)
	if cfg.Backup.Enabled {
		if err := backups.Start(cfg.Backup.Schedule); err != nil {
			log.Fatalf("Failed to start backup schedule: %v", err)
		}
		log.Printf("Scheduled backups enabled (%s) into %s", cfg.Backup.Schedule, cfg.Backup.Dir)
	}

	routerCfg := http_controllers.RouterConfig{
		Config:         cfg,
		Database:       db,
		Books:          books.NewRepository(db.DB),
		Categories:     categories.NewRepository(db.DB),
		Shelf:          shelf.NewRepository(db.DB),
		Stats:          stats.NewRepository(db.DB),
		AuthService:    authService,
		SessionManager: sessionManager,
		RateLimiter:    rateLimiter,
		ISBNClient:     isbnClient,
		Backups:        backups,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(_ context.Context) {
		rateLimiter.Stop()
		backups.Stop()
	}

	Serve(router, cfg, onShutdown)
}
