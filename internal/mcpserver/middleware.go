package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shivasurya/semindex/internal/mcplog"
)

// loggingMiddleware returns a ToolHandlerMiddleware that records every tool
// call as a JSONL entry via the server's logger. Must only be installed
// when s.logger is non-nil (guarded by NewServer).
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			elapsed := time.Since(start).Milliseconds()

			rb := mcplog.ResponseBytes(result)
			var errStr *string
			if err != nil {
				msg := err.Error()
				errStr = &msg
			}
			args := req.GetArguments()
			file, _ := args["file"].(string)

			entry := mcplog.LogEntry{
				Timestamp:     start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				File:          file,
				Params:        mcplog.SanitizeParams(args),
				DurationMs:    elapsed,
				SymbolCount:   mcplog.CountSymbolIDs(result),
				ResponseBytes: rb,
				Error:         errStr,
			}
			_ = s.logger.Write(entry)

			return result, err
		}
	}
}
