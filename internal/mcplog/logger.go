// Package mcplog is the audit trail for the MCP server: one JSONL line
// per tool call, naming the tool, the file it touched (when the call
// took one), and how many symbols came back in the response — the
// quantities an operator actually wants when diagnosing why an agent's
// resolve_symbol or query_definitions call was slow or returned nothing.
package mcplog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// LogEntry is the schema for one JSONL line written per MCP tool call.
type LogEntry struct {
	Timestamp     string         `json:"timestamp"`
	Tool          string         `json:"tool"`
	File          string         `json:"file,omitempty"` // the call's "file" argument, when it took one
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	SymbolCount   int            `json:"symbol_count"` // resolved symbol_ids in the response, via CountSymbolIDs
	ResponseBytes int            `json:"response_bytes"`
	Error         *string        `json:"error,omitempty"`
}

// Logger appends LogEntry lines to a file. Safe for concurrent use —
// every MCP tool call runs on its own goroutine under mcp-go's server.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens (or creates) the file at path for append-only
// writing, creating parent directories as needed. Returns nil, nil when
// path is empty — callers treat a nil *Logger as "logging disabled"
// rather than branching on a separate flag.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends a single JSONL entry. The caller typically discards the
// error so a logging failure never turns into a failed tool call.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// sanitizeStringMax is the longest string argument value logged verbatim.
// handleFetchSource's "file" argument and handleQueryDefinitions'
// "expression" argument are short; a tool invoked with a raw source
// snippet as an argument is the case this guards against.
const sanitizeStringMax = 64

// SanitizeParams returns a copy of args safe for logging: string values
// longer than sanitizeStringMax bytes are replaced with a "{key}_len"
// integer entry so a large source-snippet argument never lands in the
// log file.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > sanitizeStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// ResponseBytes returns the serialized byte length of a CallToolResult's
// content. Returns 0 for a nil result or on marshal error.
func ResponseBytes(result *mcp.CallToolResult) int {
	b, ok := marshalContent(result)
	if !ok {
		return 0
	}
	return len(b)
}

// CountSymbolIDs counts "symbol_id" keys across a CallToolResult's text
// content — resolve_symbol and query_definitions shape their JSON
// responses around that key (get_calls_by_scope and
// get_indirect_reachability emit Go field names and count as 0),
// so this is a cheap proxy for "how many symbols did this call surface"
// without every handler having to report its own count. Counts against
// each TextContent's raw Text, not a re-marshaled copy, since marshaling
// an already-JSON string escapes its embedded quotes.
func CountSymbolIDs(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += bytes.Count([]byte(tc.Text), []byte(`"symbol_id"`))
		}
	}
	return total
}

func marshalContent(result *mcp.CallToolResult) ([]byte, bool) {
	if result == nil {
		return nil, false
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
