package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/filecache"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/project"
)

type diskReader struct{}

func (diskReader) ReadFile(path ids.FilePath) ([]byte, error) {
	return os.ReadFile(string(path))
}

type noopResolver struct{}

func (noopResolver) ResolveImportPath(ids.FilePath, string) (ids.FilePath, bool) {
	return "", false
}

func testServer(t *testing.T) (*Server, ids.FilePath) {
	t.Helper()
	engine, err := capture.NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	proj := project.New(engine, diskReader{}, noopResolver{}, nil)

	dir := t.TempDir()
	file := filepath.Join(dir, "main.js")
	src := "function add(a, b) { return a + b; }\nfunction caller() { return add(1, 2); }\n"
	if err := os.WriteFile(file, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if errs := proj.ProcessFiles([]ids.FilePath{ids.FilePath(file)}); len(errs) > 0 {
		t.Fatalf("ProcessFiles: %v", errs)
	}

	cache := filecache.New(filecache.DefaultConfig())
	t.Cleanup(func() { _ = cache.Close() })

	return NewServer(proj, cache, nil), ids.FilePath(file)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result == nil {
		t.Fatal("nil result")
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func TestHandleQueryDefinitionsFindsFunctions(t *testing.T) {
	s, file := testServer(t)
	result := callTool(t, s.handleQueryDefinitions, map[string]any{
		"expression": `GetKind() == "function"`,
		"file":       string(file),
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var defs []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &defs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 functions, got %d: %v", len(defs), defs)
	}
}

func TestHandleQueryDefinitionsRequiresNoExpressionForAll(t *testing.T) {
	s, file := testServer(t)
	result := callTool(t, s.handleQueryDefinitions, map[string]any{"file": string(file)})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	var defs []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &defs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions with empty expression, got %d", len(defs))
	}
}

func TestHandleResolveSymbolMissingArgs(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s.handleResolveSymbol, map[string]any{"scope_id": "x"})
	if !result.IsError {
		t.Fatal("expected error result for missing name")
	}
}

func TestHandleFetchSourceReadsRange(t *testing.T) {
	s, file := testServer(t)
	result := callTool(t, s.handleFetchSource, map[string]any{
		"file":       string(file),
		"start_byte": float64(0),
		"end_byte":   float64(8),
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "function" {
		t.Fatalf("expected %q, got %q", "function", got)
	}
}

func TestHandleGetIndirectReachabilityReturnsJSON(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s.handleGetIndirectReachability, nil)
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
}
