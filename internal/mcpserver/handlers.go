package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/query"
	"github.com/shivasurya/semindex/internal/semantic"
)

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func numberArg(args map[string]any, key string) (float64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

func (s *Server) handleResolveSymbol(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	scopeID, ok := stringArg(args, "scope_id")
	if !ok {
		return mcp.NewToolResultError("scope_id is required"), nil
	}
	name, ok := stringArg(args, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}

	symbolID, found := s.proj.Resolution.Resolve(ids.ScopeId(scopeID), ids.SymbolName(name))
	if !found {
		return mcp.NewToolResultText(`{"resolved":false}`), nil
	}

	body, err := json.Marshal(map[string]any{"resolved": true, "symbol_id": symbolID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleGetCallsByScope(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	scopeID, ok := stringArg(args, "scope_id")
	if !ok {
		return mcp.NewToolResultError("scope_id is required"), nil
	}

	calls := s.proj.Resolution.GetCallsByCallerScope(ids.ScopeId(scopeID))
	body, err := json.Marshal(calls)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleGetIndirectReachability(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.proj.Resolution.GetIndirectReachability()
	body, err := json.Marshal(entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleQueryDefinitions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	expression, _ := stringArg(args, "expression")

	var candidates []*semantic.Definition
	if file, ok := stringArg(args, "file"); ok && file != "" {
		candidates = s.proj.Defs.ByFile[ids.FilePath(file)]
	} else {
		candidates = make([]*semantic.Definition, 0, len(s.proj.Defs.BySymbolID))
		for _, def := range s.proj.Defs.BySymbolID {
			candidates = append(candidates, def)
		}
	}

	matched, err := query.Filter(candidates, expression)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type summary struct {
		SymbolID string `json:"symbol_id"`
		Name     string `json:"name"`
		Kind     string `json:"kind"`
		File     string `json:"file"`
	}
	out := make([]summary, len(matched))
	for i, def := range matched {
		out[i] = summary{
			SymbolID: string(def.SymbolID),
			Name:     string(def.Name),
			Kind:     string(def.Kind),
			File:     string(def.Location.FilePath),
		}
	}

	body, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleFetchSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	file, ok := stringArg(args, "file")
	if !ok {
		return mcp.NewToolResultError("file is required"), nil
	}
	startByte, ok := numberArg(args, "start_byte")
	if !ok {
		return mcp.NewToolResultError("start_byte is required"), nil
	}
	endByte, ok := numberArg(args, "end_byte")
	if !ok {
		return mcp.NewToolResultError("end_byte is required"), nil
	}
	if s.fileCache == nil {
		return mcp.NewToolResultError("fetch_source requires a file cache, none configured"), nil
	}

	code, err := s.fileCache.FetchCode(ids.FilePath(file), uint32(startByte), uint32(endByte))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch_source: %v", err)), nil
	}
	return mcp.NewToolResultText(code), nil
}
