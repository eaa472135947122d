// Package health exposes the liveness endpoint next to the bot.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/suzume/renamebot/session"
	"github.com/suzume/renamebot/store"
	"github.com/suzume/renamebot/tool"
)

// Server is the HTTP health server.
type Server struct {
	addr     string
	sessions *session.Store
	db       *store.Store
	started  time.Time

	mu     sync.Mutex
	server *http.Server
}

func NewServer(addr string, sessions *session.Store, db *store.Store) *Server {
	return &Server{
		addr:     addr,
		sessions: sessions,
		db:       db,
		started:  time.Now(),
	}
}

type statusPayload struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	ActiveSessions int    `json:"active_sessions"`
	Database       string `json:"database"`
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bot is running!")
	})
	engine.GET("/status", s.handleStatus)
	return engine
}

func (s *Server) handleStatus(c *gin.Context) {
	payload := statusPayload{
		Status:         "ok",
		Uptime:         time.Since(s.started).Round(time.Second).String(),
		ActiveSessions: s.sessions.Len(),
		Database:       "ok",
	}
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(pingCtx); err != nil {
		payload.Status = "degraded"
		payload.Database = err.Error()
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// Start blocks serving the health endpoint until the server is shut down.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: engine,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("[Health] Serving on %s", s.addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
