// Package server exposes the gate over HTTP for annotation tooling and the
// web chat client. Every decision goes through the same gate instance the
// CLI uses; the server adds transport, not policy.
package server

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/llm"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/logging"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/observability"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/persona"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/templates"
)

// Config sets the listen address and CORS policy.
type Config struct {
	Host           string
	Port           int
	AllowedOrigins []string // empty = allow all (local tooling)
	Debug          bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultConfig returns settings suitable for local use.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Deps are the collaborators the server serves. Metrics and LLM are
// optional; without an LLM client the chat socket answers gated messages
// only with repair templates.
type Deps struct {
	Gate    *gate.Gate
	LLM     llm.Client
	Persona string
	Metrics *observability.Metrics
	Tracer  *observability.TracerProvider
	Logger  logging.Logger
	Seed    int64
}

// Server is the HTTP/WebSocket front end over the gate.
type Server struct {
	gate       *gate.Gate
	llmClient  llm.Client
	persona    persona.Persona
	metrics    *observability.Metrics
	tracer     *observability.TracerProvider
	logger     logging.Logger
	engine     *gin.Engine
	httpServer *http.Server
	upgrader   websocket.Upgrader

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New wires routes over the given gate. The persona name must be known.
func New(config Config, deps Deps) (*Server, error) {
	if deps.Gate == nil {
		return nil, fmt.Errorf("server: gate is required")
	}
	personaName := deps.Persona
	if personaName == "" {
		personaName = persona.Default
	}
	p, err := persona.Get(personaName)
	if err != nil {
		return nil, err
	}

	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(config.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	seed := deps.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Server{
		gate:      deps.Gate,
		llmClient: deps.LLM,
		persona:   p,
		metrics:   deps.Metrics,
		tracer:    deps.Tracer,
		logger:    logging.WithComponent(logging.OrNop(deps.Logger), "server"),
		engine:    engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		rng: rand.New(rand.NewSource(seed)),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      engine,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.engine.Group("/api")
	{
		api.POST("/gate/decide", s.handleDecide)
		api.GET("/templates", s.handleTemplates)
		api.GET("/personas", s.handlePersonas)
		api.GET("/chat/ws", s.handleChatSocket)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type decideRequest struct {
	SampleID string   `json:"sample_id"`
	Text     string   `json:"text" binding:"required"`
	History  []turnIn `json:"history"`
}

type turnIn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

func (t turnIn) toTurn() features.Turn {
	return features.Turn{Speaker: t.Speaker, Text: t.Text}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleDecide(c *gin.Context) {
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	msg := gate.Message{SampleID: req.SampleID, Text: req.Text}
	for _, turn := range req.History {
		msg.History = append(msg.History, turn.toTurn())
	}

	ctx := c.Request.Context()
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.StartTurn(ctx, msg.SampleID)
		defer span.End()
	}

	decision, err := s.gate.Decide(ctx, msg)
	if err != nil {
		status := http.StatusInternalServerError
		if gateerrors.IsInvalidInput(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gate.BuildRecord(msg, decision))
}

func (s *Server) handleTemplates(c *gin.Context) {
	ids := templates.IDs()
	rendered := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		rendered = append(rendered, gin.H{"id": id, "example": s.render(id)})
	}
	c.JSON(http.StatusOK, gin.H{"templates": rendered})
}

func (s *Server) handlePersonas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"personas": persona.All(), "default": persona.Default})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// render serializes template randomness; the shared rng is not safe for
// concurrent handlers.
func (s *Server) render(id string) string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return templates.Render(id, s.rng)
}
