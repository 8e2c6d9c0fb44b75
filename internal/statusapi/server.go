// Package statusapi exposes the startup status snapshot over a loopback MCP
// endpoint so a UI, or `launchpad status`, can poll it from another process.
package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"launchpad/internal/startup"
	"launchpad/pkg/logging"
)

// ToolName is the MCP tool returning the status snapshot.
const ToolName = "startup_status"

// StatusSource produces snapshots; *startup.Publisher satisfies it.
type StatusSource interface {
	Snapshot() startup.Status
}

// Server serves ToolName over SSE.
type Server struct {
	host    string
	port    int
	version string
	source  StatusSource

	mu         sync.Mutex
	mcpServer  *server.MCPServer
	sseServer  *server.SSEServer
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a Server bound to host:port once started. Port 0 picks
// a free port.
func NewServer(host string, port int, version string, source StatusSource) *Server {
	if host == "" {
		host = "127.0.0.1"
	}
	return &Server{host: host, port: port, version: version, source: source}
}

// Start binds the listener and serves in the background. A bind failure is
// returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer != nil {
		return fmt.Errorf("status server already started")
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.host, fmt.Sprint(s.port)))
	if err != nil {
		return fmt.Errorf("status server listen: %w", err)
	}
	s.listener = ln

	s.mcpServer = server.NewMCPServer(
		"launchpad",
		s.version,
		server.WithToolCapabilities(true),
	)
	s.mcpServer.AddTool(
		mcp.NewTool(ToolName,
			mcp.WithDescription("Current startup phase, message, elapsed time and log lines of the local service bootstrap"),
		),
		s.handleStatus,
	)

	s.sseServer = server.NewSSEServer(
		s.mcpServer,
		server.WithBaseURL("http://"+ln.Addr().String()),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)
	s.httpServer = &http.Server{
		Handler:           s.sseServer,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logging.Info("StatusAPI", "Serving %s on %s", ToolName, ln.Addr())
	httpServer := s.httpServer
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("StatusAPI", err, "Status server stopped")
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Endpoint returns the base URL clients connect to.
func (s *Server) Endpoint() string {
	if addr := s.Addr(); addr != "" {
		return "http://" + addr
	}
	return ""
}

// Stop closes open SSE sessions and the listener.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	sseServer, httpServer := s.sseServer, s.httpServer
	s.sseServer, s.httpServer, s.mcpServer, s.listener = nil, nil, nil, nil
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := sseServer.Shutdown(shutdownCtx); err != nil {
		logging.Debug("StatusAPI", "SSE shutdown: %v", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		// Open event streams keep connections busy; drop them.
		return httpServer.Close()
	}
	return nil
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.source.Snapshot())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
