package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docviewer/internal/groups"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the documentation backend's API
// groups to assistants.
type Server struct {
	client *groups.Client
	opts   viewer.Options
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server reading groups through client. opts
// must carry the backend server URL used to build specification URLs.
func NewServer(client *groups.Client, opts viewer.Options) *Server {
	s := &Server{
		client: client,
		opts:   opts.WithServerURL(opts.ServerURL),
	}

	s.mcp = server.NewMCPServer(
		"docviewer",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listAPIGroupsTool, s.handleListAPIGroups)
	s.mcp.AddTool(resolveSpecURLTool, s.handleResolveSpecURL)
	s.mcp.AddTool(summarizeAPITool, s.handleSummarizeAPI)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
