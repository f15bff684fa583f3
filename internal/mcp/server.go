// Package mcp exposes the task store to MCP clients over stdio or
// streamable HTTP, so assistants can capture and work tasks without going
// through the terminal UI.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/taskdeck/internal/enrich"
	"github.com/dohr-michael/taskdeck/internal/storage"
)

const (
	ServerName    = "taskdeck"
	ServerVersion = "0.1.0"
)

// Server wraps the MCP server around the task store.
type Server struct {
	mcpServer *mcpsdk.Server
	store     *storage.Store
	enricher  *enrich.Enricher
	activity  *storage.ActivityLog
	logger    *slog.Logger
}

// NewServer creates the taskdeck MCP server. enricher may be nil or
// disabled; create_task then stores raw captures verbatim.
func NewServer(store *storage.Store, enricher *enrich.Enricher, activity *storage.ActivityLog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		}, nil),
		store:    store,
		enricher: enricher,
		activity: activity,
		logger:   logger,
	}

	s.registerTools()
	s.registerResources()
	return s
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, createTaskTool(), s.handleCreateTask)
	mcpsdk.AddTool(s.mcpServer, updateTaskTool(), s.handleUpdateTask)
	mcpsdk.AddTool(s.mcpServer, listTasksTool(), s.handleListTasks)
	mcpsdk.AddTool(s.mcpServer, readTaskTool(), s.handleReadTask)
	mcpsdk.AddTool(s.mcpServer, completeTaskTool(), s.handleCompleteTask)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(dailySummaryResource(), s.handleDailySummary)
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP handler for the server.
func (s *Server) HTTPHandler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(
		func(r *http.Request) *mcpsdk.Server {
			return s.mcpServer
		},
		&mcpsdk.StreamableHTTPOptions{
			Logger: s.logger,
		},
	)
}

// ServeHTTP listens on addr with the MCP endpoint mounted at /mcp and a
// plain health probe. It blocks until the context is cancelled or the
// listener fails.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/api/health", handleHealth)
	r.Mount("/mcp", s.HTTPHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("mcp http server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- httpServer.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
