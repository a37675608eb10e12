// Package web exposes the question answering service over HTTP.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/corey/menuqa/internal/app"
	"github.com/corey/menuqa/internal/domain/tools"
)

// Server serves the JSON API. Sessions are kept in memory per session id so
// follow-up questions can reuse the last resolved item.
type Server struct {
	app    *app.App
	logger *zap.Logger
	engine *gin.Engine

	mu       sync.Mutex
	sessions map[string]*app.Session

	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once
}

// NewServer builds the HTTP layer around an assembled App.
func NewServer(a *app.App, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		app:      a,
		logger:   logger.Named("web"),
		sessions: make(map[string]*app.Session),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/ask", s.handleAsk)
	r.GET("/healthz", s.handleHealth)
	r.POST("/reload", s.handleReload)
	s.engine = r
	return s
}

// Handler returns the underlying http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()
	s.httpSrv = &http.Server{Handler: s.engine}

	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Warn("http shutdown", zap.Error(err))
		}
	})
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.port
}

type askRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id"`
	Debug     bool   `json:"debug"`
}

type askResponse struct {
	Answer string             `json:"answer"`
	Route  *app.RouteDecision `json:"route,omitempty"`
	Tool   *tools.Result      `json:"tool,omitempty"`
}

func (s *Server) session(id string) *app.Session {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = app.NewSession()
		s.sessions[id] = sess
	}
	return sess
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ans := s.app.Ask(c.Request.Context(), req.Question, s.session(req.SessionID))

	resp := askResponse{Answer: ans.Text}
	if req.Debug {
		resp.Route = &ans.Route
		resp.Tool = ans.Tool
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	idx := s.app.Index()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"items":      len(idx.Items),
		"categories": len(idx.Categories),
		"discounts":  len(idx.Discounts),
		"uptime":     time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleReload(c *gin.Context) {
	if err := s.app.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	idx := s.app.Index()
	c.JSON(http.StatusOK, gin.H{
		"status": "reloaded",
		"items":  len(idx.Items),
	})
}
