package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/resolve"
)

func TestFormatReportsOnlyUnresolvedCalls(t *testing.T) {
	calls := []*resolve.CallReference{
		{
			Location: ids.Location{FilePath: "main.js", StartLine: 10, StartColumn: 3},
			Name:     "doThing",
			CallType: resolve.CallFunction,
		},
		{
			Location:    ids.Location{FilePath: "main.js", StartLine: 20},
			Name:        "known",
			CallType:    resolve.CallFunction,
			Resolutions: []resolve.Resolution{{SymbolID: "sym1", Confidence: "high"}},
		},
	}

	var buf bytes.Buffer
	f := NewSARIFFormatter(&buf)
	if err := f.Format(calls, "semindex"); err != nil {
		t.Fatal(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}

	runs := doc["runs"].([]interface{})
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	results := runs[0].(map[string]interface{})["results"].([]interface{})
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 unresolved result, got %d", len(results))
	}
}

func TestFormatEmptyCallsYieldsNoResults(t *testing.T) {
	var buf bytes.Buffer
	f := NewSARIFFormatter(&buf)
	if err := f.Format(nil, "semindex"); err != nil {
		t.Fatal(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	runs := doc["runs"].([]interface{})
	run := runs[0].(map[string]interface{})
	if results, ok := run["results"].([]interface{}); ok && len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
