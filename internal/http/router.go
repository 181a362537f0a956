package http

import (
	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/auth"
	"github.com/booklore/homeshelf/internal/backup"
	"github.com/booklore/homeshelf/internal/config"
	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/database/books"
	"github.com/booklore/homeshelf/internal/database/categories"
	"github.com/booklore/homeshelf/internal/database/shelf"
	"github.com/booklore/homeshelf/internal/database/stats"
	"github.com/booklore/homeshelf/internal/isbn"
)

// RouterConfig carries every dependency the router needs. A single struct
// keeps NewRouter's signature stable as endpoints come and go.
type RouterConfig struct {
	Config   *config.Config
	Database *database.Database

	Books      *books.Repository
	Categories *categories.Repository
	Shelf      *shelf.Repository
	Stats      *stats.Repository

	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	RateLimiter    *auth.RateLimiter

	ISBNClient *isbn.Client
	Backups    *backup.Service
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if secret := cfg.Config.Auth.CSRFSecret; secret != "" {
		router.Use(auth.CSRFMiddleware([]byte(secret), cfg.Config.Auth.SecureCookies))
	}

	router.Use(cfg.SessionManager.SessionLoadSave())

	authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter)
	booksController := NewBooksController(cfg.Books)
	categoriesController := NewCategoriesController(cfg.Categories)
	bookCategoriesController := NewBookCategoriesController(cfg.Shelf)
	statsController := NewStatsController(cfg.Stats)
	systemController := NewSystemController(cfg.Config, cfg.Database, cfg.Backups)
	var isbnController *ISBNController
	if cfg.ISBNClient != nil {
		isbnController = NewISBNController(cfg.ISBNClient)
	}

	// Public endpoints
	authController.RegisterRoutes(router)
	router.GET("/health", systemController.Health)
	router.GET("/ping", systemController.Ping)
	router.GET("/site-config", systemController.SiteConfig)

	// Debug endpoints answer 404 unless the debug flag is on
	debugGroup := router.Group("/debug", auth.DebugOnly(cfg.Config.Debug.Enabled))
	debugGroup.GET("/session", authController.DebugSession)

	// Everything below requires an authenticated session, reads included
	protected := router.Group("/", cfg.SessionManager.RequireSession())

	protected.GET("/books", booksController.ListBooks)
	protected.POST("/books", booksController.CreateBook)
	protected.GET("/books/stats", statsController.GetStats)
	protected.PUT("/books/sort", booksController.SortBooks)
	protected.GET("/books/:id", booksController.GetBook)
	protected.PUT("/books/:id", booksController.UpdateBook)
	protected.DELETE("/books/:id", booksController.DeleteBook)

	protected.GET("/categories", categoriesController.ListCategories)
	protected.POST("/categories", categoriesController.CreateCategory)
	protected.PUT("/categories", categoriesController.UpdateCategory)
	protected.DELETE("/categories", categoriesController.DeleteCategory)

	protected.GET("/book-categories", bookCategoriesController.List)
	protected.POST("/book-categories", bookCategoriesController.Link)
	protected.PUT("/book-categories", bookCategoriesController.Reorder)
	protected.DELETE("/book-categories", bookCategoriesController.Unlink)

	if isbnController != nil {
		protected.GET("/isbn", isbnController.Lookup)
	}

	protected.GET("/system/info", systemController.Info)
	protected.GET("/system/database-status", systemController.DatabaseStatus)
	protected.POST("/system/backup-database", systemController.BackupDatabase)

	return router
}
