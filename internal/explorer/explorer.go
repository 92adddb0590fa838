package explorer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nerrad567/sqlite-explorer/internal/attach"
	"github.com/nerrad567/sqlite-explorer/internal/catalog"
	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/database"
	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/logging"
	"github.com/nerrad567/sqlite-explorer/internal/query"
)

// serverName is the MCP server name advertised during initialisation.
const serverName = "SQLite Explorer"

// Server wires the catalog reader, query executor, and attachment
// registry into an MCP server.
//
// Every tool and resource handler returns a text payload, including on
// failure: errors are rendered into the result body rather than raised
// through the protocol layer, so clients always receive a well-formed
// response and pattern-match its text. The attachment registry is the
// only cross-request state the server holds.
type Server struct {
	mcp      *server.MCPServer
	mgr      *database.Manager
	catalog  *catalog.Reader
	registry *attach.Registry
	executor *query.Executor
	log      *logging.Logger
}

// New constructs the explorer server over a validated connection manager.
//
// Parameters:
//   - mgr: Connection manager for the primary database
//   - log: Structured logger
//   - version: Advertised server version
//
// Returns:
//   - *Server: Server with all tools and resources registered
func New(mgr *database.Manager, log *logging.Logger, version string) *Server {
	registry := attach.NewRegistry(mgr)

	s := &Server{
		mcp: server.NewMCPServer(
			serverName,
			version,
			server.WithResourceCapabilities(true, true),
			server.WithToolCapabilities(false),
		),
		mgr:      mgr,
		catalog:  catalog.NewReader(mgr),
		registry: registry,
		executor: query.NewExecutor(mgr, registry),
		log:      log.With("component", "explorer"),
	}

	s.registerTools()
	s.registerResources()

	return s
}

// MCP exposes the underlying MCP server, mainly for tests and for
// embedding into alternative transports.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the MCP protocol on stdin/stdout until the client
// disconnects or the process receives a signal.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// instrument wraps a tool handler with per-invocation logging: a short
// request ID, the tool name, duration, and whether the payload carried
// an error.
func (s *Server) instrument(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := "req-" + uuid.NewString()[:8]
		start := time.Now()

		res, err := h(ctx, req)

		isError := err != nil || (res != nil && res.IsError)
		s.log.Info("tool call",
			"request_id", id,
			"tool", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"is_error", isError,
		)
		return res, err
	}
}
