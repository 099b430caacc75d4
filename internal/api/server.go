package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mdemidenko/homework-bot/config"
	_ "github.com/mdemidenko/homework-bot/docs"
	"github.com/mdemidenko/homework-bot/internal/middleware"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	handler    *Handler
	cfg        *config.Config
	logger     zerolog.Logger
}

// NewServer создает сервер операторского API
func NewServer(handler *Handler, cfg *config.Config, logger zerolog.Logger) *Server {
	setGinMode(cfg)

	server := &Server{
		router:  gin.New(),
		handler: handler,
		cfg:     cfg,
		logger:  logger.With().Str("component", "api").Logger(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	if cfg.Server.Host == "localhost" {
		addr = ":" + cfg.Server.Port
	}
	server.httpServer = &http.Server{
		Addr:           addr,
		Handler:        server.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return server
}

// Router нужен тестам
func (s *Server) Router() http.Handler {
	return s.router
}

func setGinMode(cfg *config.Config) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		return
	}
	switch cfg.Server.GinMode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	if len(s.cfg.Server.TrustedProxies) > 0 {
		if err := s.router.SetTrustedProxies(s.cfg.Server.TrustedProxies); err != nil {
			s.logger.Warn().Err(err).Msg("failed to set trusted proxies")
		}
	}
}

// loggingMiddleware пишет одну строку на запрос
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Debug().
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Msg("[API]")
	}
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.handler.HealthHandler)
		api.POST("/auth/login", s.handler.LoginHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.Auth.JWTSecret))
		protected.GET("/status", s.handler.StatusHandler)
		protected.GET("/notifications", s.handler.NotificationsHandler)
		protected.GET("/notifications/sent", s.handler.SentNotificationsHandler)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Homework status bot",
			"version": s.cfg.App.Version,
			"status":  "running",
			"docs":    "/swagger/index.html",
		})
	})

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, NotFoundError("The requested route does not exist: "+c.Request.URL.Path))
	})
}

// Start запускает сервер и блокируется до Shutdown
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("🚀 Сервер запущен")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
