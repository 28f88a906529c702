package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	conceptrag "github.com/poiesic/conceptrag"
	"github.com/poiesic/conceptrag/search"
)

const (
	// ServerName is the MCP server name
	ServerName = "conceptrag"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	db       *conceptrag.Database
	searcher *search.Searcher
	logger   *slog.Logger
}

// NewServer wires an MCP server around an already-opened database. The
// resolution caches are loaded here so every registered tool can assume a
// serving-ready engine.
func NewServer(ctx context.Context, db *conceptrag.Database) (*Server, error) {
	if err := db.LoadCaches(ctx); err != nil {
		return nil, err
	}

	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		db:       db,
		searcher: searcher,
		logger:   slog.Default().With("component", "mcp"),
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving", "name", ServerName, "version", ServerVersion)
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(prewarmLexiconTool(), s.handlePrewarmLexicon)
	s.mcp.AddTool(cacheStatsTool(), s.handleCacheStats)
}
