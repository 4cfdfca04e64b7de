package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gridiron-chat/internal/chat"
	"gridiron-chat/internal/config"
)

// Server is the HTTP front end around a loaded roster: the chat endpoint, a
// WebSocket variant of it, the MCP tool endpoint, health and metrics, and the
// static chat page.
type Server struct {
	cfg      config.ServerConfig
	ready    *chat.Ready
	log      *zap.Logger
	mcp      *mcp.Server
	registry []toolInfo

	pongWait   time.Duration
	pingPeriod time.Duration
}

func New(cfg config.ServerConfig, ready *chat.Ready, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, ready: ready, log: log, pongWait: wsPongWait, pingPeriod: wsPingPeriod}
	s.mcp = s.newMCPServer()
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", s.cfg.AuthHeader, "Mcp-Session-Id"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/chat", func(r chi.Router) {
		r.With(chimiddleware.Timeout(30*time.Second)).Post("/", s.handleChat)
		r.Get("/ws", s.handleChatWS)
	})

	guard := requireAPIKey(s.cfg, s.log)
	r.With(guard).Get("/tools", s.handleTools)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
	r.With(guard).Handle(s.cfg.MCPPath, mcpHandler)

	if dir := s.cfg.PublicDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(dir)))
		} else {
			s.log.Warn("public dir not found; static files disabled", zap.String("dir", dir))
		}
	}
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("server listening",
			zap.String("addr", s.cfg.Addr),
			zap.String("mcp_path", s.cfg.MCPPath),
			zap.Int("players", s.ready.Len()))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("graceful shutdown failed", zap.Error(err))
			return srv.Close()
		}
		return nil
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	// A body that is not a JSON object counts as an empty message.
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req)

	a := s.ready.Answer(req.Message)
	status := http.StatusOK
	if a.Kind == chat.KindEmptyQuery {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, chatResponse{Response: a.Text})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"players": s.ready.Len(),
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"tools": s.registry})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
