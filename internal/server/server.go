package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/botforge/botgate/internal/db"
	"github.com/botforge/botgate/internal/llmclient"
	"github.com/botforge/botgate/internal/patchnotes"
	"github.com/botforge/botgate/internal/server/middleware"
	"github.com/botforge/botgate/internal/typ"
)

// Server represents the HTTP server
type Server struct {
	store      *db.BotStore
	generator  llmclient.Generator
	summarizer *patchnotes.Summarizer
	engine     *gin.Engine
	httpServer *http.Server

	ipLimiter  *middleware.Limiter
	botLimiter *middleware.Limiter

	port int
}

// ServerOption defines a functional option for Server configuration
type ServerOption func(*Server)

// WithGenerator overrides the generation client (used by tests)
func WithGenerator(g llmclient.Generator) ServerOption {
	return func(s *Server) {
		s.generator = g
	}
}

// WithSummarizer enables the patch-notes endpoint
func WithSummarizer(sum *patchnotes.Summarizer) ServerOption {
	return func(s *Server) {
		s.summarizer = sum
	}
}

// WithPort sets the listening port
func WithPort(port int) ServerOption {
	return func(s *Server) {
		s.port = port
	}
}

// WithLimits overrides the relay rate limits
func WithLimits(ipLimit, botLimit int, window time.Duration) ServerOption {
	return func(s *Server) {
		s.ipLimiter = middleware.NewLimiter(ipLimit, window)
		s.botLimiter = middleware.NewLimiter(botLimit, window)
	}
}

// NewServer creates a new HTTP server instance with functional options
func NewServer(store *db.BotStore, opts ...ServerOption) *Server {
	s := &Server{
		store:      store,
		ipLimiter:  middleware.NewLimiter(middleware.DefaultIPLimit, middleware.DefaultWindow),
		botLimiter: middleware.NewLimiter(middleware.DefaultBotLimit, middleware.DefaultWindow),
		port:       5000,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(gin.Logger(), recovery())
	s.registerRoutes()

	return s
}

// recovery converts panics from any stage into the generic 500 body after
// logging them, so no handler leaks internals to the caller.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.Errorf("panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, typ.ErrorBody{
			Error: "Internal server error",
		})
	})
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// relay pipeline: origin gate, then IP limiter, then bot limiter
	relay := []gin.HandlerFunc{
		middleware.OriginGate(s.store),
		middleware.IPRateLimiter(s.ipLimiter),
		middleware.BotRateLimiter(s.botLimiter),
		s.AskGemini,
	}
	s.engine.POST("/ask-gemini", relay...)
	s.engine.OPTIONS("/ask-gemini", middleware.OriginGate(s.store))

	s.engine.POST("/create-bot", s.CreateBot)
	s.engine.GET("/bot/:botId", s.GetBot)
	s.engine.PUT("/bot/:botId", s.UpdateBot)
	s.engine.DELETE("/bot/:botId", s.DeleteBot)
	s.engine.GET("/bots", s.ListBots)

	if s.summarizer != nil {
		s.engine.GET("/patches", s.Patches)
	}
}

// Engine exposes the gin engine for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.engine,
	}
	logrus.Infof("Server running on port %d", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
