// Package api serves the prediction and chat endpoints and the static frontend.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/athlete-guard/internal/logger"
	"github.com/yourusername/athlete-guard/internal/metrics"
	"github.com/yourusername/athlete-guard/internal/models"
	"github.com/yourusername/athlete-guard/internal/tracing"
)

// maxBodyBytes bounds request bodies and websocket frames.
const maxBodyBytes = 1 << 20

// Predictor produces a risk assessment for a profile.
type Predictor interface {
	Predict(ctx context.Context, profile *models.AthleteProfile) (*models.PredictionResult, error)
}

// ChatResponder answers chat requests.
type ChatResponder interface {
	Respond(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

// Config holds configuration for the API server.
type Config struct {
	Address        string
	FrontendDir    string
	AllowedOrigins []string
	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string
	// TraceName wraps every request in an X-Ray segment when non-empty.
	TraceName    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:        "127.0.0.1:8000",
		FrontendDir:    "UI",
		AllowedOrigins: []string{"*"},
		MetricsPath:    "/metrics",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// Server represents the HTTP facade.
type Server struct {
	cfg        *Config
	router     *chi.Mux
	httpServer *http.Server
	predictor  Predictor
	chat       ChatResponder
	static     http.FileSystem
	upgrader   websocket.Upgrader
	logger     *logrus.Logger
	access     *logger.AccessLogger
}

// NewServer creates a new API server.
func NewServer(cfg *Config, predictor Predictor, chat ChatResponder, log *logrus.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		predictor: predictor,
		chat:      chat,
		static:    http.Dir(cfg.FrontendDir),
		logger:    log,
		access:    logger.NewAccessLogger(log),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Post("/predict", s.handlePredict)
	s.router.Post("/chat", s.handleChat)
	s.router.Get("/ws/chat", s.handleChatSocket)

	if s.cfg.MetricsPath != "" {
		s.router.Handle(s.cfg.MetricsPath, metrics.Handler())
	}

	s.router.Get("/", s.handleStatic)
	s.router.Get("/*", s.handleStatic)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	if s.cfg.TraceName != "" {
		return tracing.Middleware(s.cfg.TraceName, s.router)
	}
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.WithField("address", s.cfg.Address).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// checkOrigin applies the CORS origin list to websocket upgrades.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
