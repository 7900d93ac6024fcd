// Package mcpserver exposes a project's resolved semantic index over the
// Model Context Protocol, so an editor or agent can resolve symbols, walk
// call edges, run expr-lang queries over definitions, and fetch source
// snippets without shelling out to the CLI.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/shivasurya/semindex/internal/filecache"
	"github.com/shivasurya/semindex/internal/mcplog"
	"github.com/shivasurya/semindex/internal/project"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for a semindex project.
type Server struct {
	mcpServer *server.MCPServer
	proj      *project.Project
	fileCache *filecache.Cache // may be nil; fetch_source then always errors
	logger    *mcplog.Logger   // may be nil if logging is disabled
}

// NewServer creates an MCP server backed by proj. fileCache may be nil to
// disable fetch_source. logger may be nil to disable tool-call logging.
func NewServer(proj *project.Project, fileCache *filecache.Cache, logger *mcplog.Logger) *Server {
	s := &Server{proj: proj, fileCache: fileCache, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("semindex", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: resolveSymbolTool(), Handler: s.handleResolveSymbol},
		server.ServerTool{Tool: getCallsByScopeTool(), Handler: s.handleGetCallsByScope},
		server.ServerTool{Tool: getIndirectReachabilityTool(), Handler: s.handleGetIndirectReachability},
		server.ServerTool{Tool: queryDefinitionsTool(), Handler: s.handleQueryDefinitions},
		server.ServerTool{Tool: fetchSourceTool(), Handler: s.handleFetchSource},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the logger if one is active. Should be deferred after NewServer.
func (s *Server) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}
