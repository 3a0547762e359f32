// Package server hosts the REST API and the MCP endpoint on one HTTP listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/startsmart/internal/api"
	"github.com/honeycarbs/startsmart/internal/mcp"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

// MCPPath is where the streamable MCP transport is mounted
const MCPPath = "/mcp/stream"

// Server wraps the HTTP listener
type Server struct {
	logger *logging.Logger

	srv     *http.Server
	started atomic.Bool
}

// New builds the HTTP server around the REST routes and the MCP endpoint
func New(addr string, rest *api.Handler, mcpServer *sdkmcp.Server, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}

	mux := http.NewServeMux()
	rest.Register(mux)
	mux.Handle(MCPPath, mcp.Handler(mcpServer))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		logger: logger,
		srv: &http.Server{
			Addr:              addr,
			Handler:           rest.Middleware(mux),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the root handler for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("HTTP server listening", "addr", s.srv.Addr, "mcp", MCPPath)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
