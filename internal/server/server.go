// Package server wires the HTTP surface: route dispatch, form extraction,
// and the conversion of auth gate decisions into redirect responses.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jokehub-dev/jokehub/internal/auth"
	"github.com/jokehub-dev/jokehub/internal/config"
	"github.com/jokehub-dev/jokehub/internal/models"
	"github.com/jokehub-dev/jokehub/internal/password"
	"github.com/jokehub-dev/jokehub/internal/posts"
	"github.com/jokehub-dev/jokehub/internal/session"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	db       *gorm.DB
	config   *config.Config
	logger   zerolog.Logger
	auth     *auth.Service
	gate     *auth.Gate
	sessions *session.Store
	posts    *posts.Store
	version  string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Session codec gets the signing secret explicitly; config.Load already
	// guaranteed it is present and long enough.
	codec, err := session.NewCodec(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}
	sessions := session.NewStore(codec, session.DefaultOptions(cfg.Session.Secure))

	hasher := password.NewHasher(password.DefaultCost)
	authService := auth.NewService(db, hasher, sessions, zlog)
	gate := auth.NewGate(db, sessions)

	postStore, err := posts.NewStore(cfg.Posts.Dir, zlog)
	if err != nil {
		return nil, err
	}

	// Register custom validators on gin's binding engine
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("slugfield", func(fl validator.FieldLevel) bool {
			// Allow alphanumeric, hyphens, and underscores only (safe for
			// filesystem paths)
			value := fl.Field().String()
			if value == "" {
				return false
			}
			for _, char := range value {
				if !((char >= 'a' && char <= 'z') ||
					(char >= 'A' && char <= 'Z') ||
					(char >= '0' && char <= '9') ||
					char == '-' ||
					char == '_') {
					return false
				}
			}
			return true
		}); err != nil {
			return nil, err
		}
	}

	// Create server
	server := &Server{
		db:       db,
		config:   cfg,
		logger:   zlog,
		auth:     authService,
		gate:     gate,
		sessions: sessions,
		posts:    postStore,
		version:  version,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 300 // seconds
		busyTimeout     = 5000
	)

	// TranslateError lets the unique-constraint violation on registration
	// surface as gorm.ErrDuplicatedKey instead of a driver-specific error.
	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply SQLite pragmas directly (connection string pragmas may not work
	// with all drivers)
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware for the dev frontend
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.router.SetHTMLTemplate(loadTemplates())

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	s.router.GET("/", s.home)

	// Public auth endpoints
	s.router.GET("/login", s.loginPage)
	s.router.POST("/login", s.loginSubmit)
	s.router.POST("/logout", s.logout)

	// Jokes: reading is public, writing requires a session
	jokes := s.router.Group("/jokes")
	{
		jokes.GET("", s.listJokes)
		jokes.GET("/random", s.randomJoke)
		jokes.GET("/:id", s.showJoke)

		gated := jokes.Group("")
		gated.Use(s.requireLogin())
		{
			gated.GET("/new", s.newJokePage)
			gated.POST("", s.createJoke)
			gated.POST("/:id/delete", s.deleteJoke)
		}
	}

	// Blog: reading is public
	s.router.GET("/posts", s.listPosts)
	s.router.GET("/posts/:slug", s.showPost)

	// Blog admin CRUD requires a session
	admin := s.router.Group("/admin")
	admin.Use(s.requireLogin())
	{
		admin.GET("", s.adminIndex)
		admin.GET("/new", s.newPostPage)
		admin.POST("/new", s.createPost)
		admin.GET("/:slug", s.editPostPage)
		admin.POST("/:slug", s.updatePost)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "jokehub",
		"version":   s.version,
	})
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.HTTP.Addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.logger.Info().Str("addr", s.config.HTTP.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	return nil
}
