package server

import (
	"ctchen222/tictactoe-hotseat/internal/api/controller"
	"ctchen222/tictactoe-hotseat/internal/session"
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

//go:embed web
var webFS embed.FS

type Server struct {
	session  *session.Session
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer builds the gin engine serving the board page, the JSON API and
// the websocket push channel for one session.
func NewServer(s *session.Session, gameController *controller.GameController) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	srv := &Server{
		session: s,
		engine:  engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	srv.RegisterHandlers(gameController)
	return srv
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterHandlers(gameController *controller.GameController) {
	s.engine.GET("/", s.handleIndex)

	api := s.engine.Group("/api/game")
	api.GET("", gameController.GetGame)
	api.POST("/move", gameController.Move)
	api.POST("/restart", gameController.Restart)

	s.engine.GET("/ws", s.handleWebSocket)
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// handleWebSocket upgrades the connection and serves it until the client
// goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	clientID := uuid.New().String()
	span.SetAttributes(attribute.String("client.id", clientID))
	slog.InfoContext(ctx, "websocket client connected", "client.id", clientID, "session.id", s.session.ID)

	newClient(clientID, conn, s.session).serve(ctx)

	slog.InfoContext(ctx, "websocket client disconnected", "client.id", clientID)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.path", c.FullPath(),
			"http.status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
