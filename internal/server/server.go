// Package server exposes the assistant pipelines over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/walletwise/walletwise/internal/config"
	"github.com/walletwise/walletwise/internal/llm"
	"github.com/walletwise/walletwise/internal/logger"
	"github.com/walletwise/walletwise/internal/market"
	"github.com/walletwise/walletwise/internal/store"
)

// Pipelines groups the conversation pipelines served over HTTP.
type Pipelines struct {
	Advisor     Responder
	Transaction Responder
	Education   Responder
}

// Server wires the HTTP routes to the application services.
type Server struct {
	engine      *gin.Engine
	cfg         config.ServerConfig
	pipelines   Pipelines
	classifier  Classifier
	transcriber llm.Transcriber
	gateway     *market.Gateway
	store       store.Store
	log         *slog.Logger
}

// New builds the gin engine with CORS, request logging, and all routes
// registered. classifier routes home-chat requests to the right pipeline.
func New(cfg config.ServerConfig, pipelines Pipelines, classifier Classifier, transcriber llm.Transcriber, gateway *market.Gateway, st store.Store, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.Middleware(log))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		engine:      engine,
		cfg:         cfg,
		pipelines:   pipelines,
		classifier:  classifier,
		transcriber: transcriber,
		gateway:     gateway,
		store:       st,
		log:         log.With("component", "server"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/chat", s.handleAdvisorChat)
	s.engine.POST("/transaction-chat", s.handleTransactionChat)
	s.engine.POST("/education-chat", s.handleEducationChat)
	s.engine.POST("/home-chat", s.handleHomeChat)
	s.engine.POST("/transcribe", s.handleTranscribe)
	s.engine.GET("/convert", s.handleConvert)
	s.engine.GET("/contacts", s.handleSearchContacts)
	s.engine.POST("/contacts", s.handleSaveContact)
	s.engine.GET("/services", s.handleListServices)
	s.engine.POST("/services", s.handleSaveService)
}

// Handler returns the http.Handler for the server, for use with http.Server
// and in tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
