package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity VerbosityLevel
	}{
		{"default verbosity", VerbosityDefault},
		{"verbose", VerbosityVerbose},
		{"debug", VerbosityDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogger(tt.verbosity)
			if l == nil {
				t.Fatal("expected non-nil logger")
			}
			if l.verbosity != tt.verbosity {
				t.Errorf("verbosity: got %v, want %v", l.verbosity, tt.verbosity)
			}
			if l.timings == nil {
				t.Error("expected initialized timings map")
			}
		})
	}
}

func TestLoggerProgress(t *testing.T) {
	tests := []struct {
		name      string
		verbosity VerbosityLevel
		expectOut bool
	}{
		{"default hides progress", VerbosityDefault, false},
		{"verbose shows progress", VerbosityVerbose, true},
		{"debug shows progress", VerbosityDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLoggerWithWriter(tt.verbosity, &buf)
			l.Progress("indexed %d files", 42)

			hasOutput := buf.Len() > 0
			if hasOutput != tt.expectOut {
				t.Errorf("hasOutput: got %v, want %v", hasOutput, tt.expectOut)
			}
			if tt.expectOut && !strings.Contains(buf.String(), "indexed 42 files") {
				t.Errorf("output missing message: %q", buf.String())
			}
		})
	}
}

func TestLoggerDebugHasElapsedPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDebug, &buf)
	l.Debug("resolving calls")

	if !strings.Contains(buf.String(), "[") {
		t.Errorf("expected elapsed-time prefix, got %q", buf.String())
	}
}

func TestLoggerDebugHiddenBelowDebugVerbosity(t *testing.T) {
	for _, v := range []VerbosityLevel{VerbosityDefault, VerbosityVerbose} {
		var buf bytes.Buffer
		l := NewLoggerWithWriter(v, &buf)
		l.Debug("hidden")
		if buf.Len() != 0 {
			t.Errorf("verbosity %v: expected no debug output, got %q", v, buf.String())
		}
	}
}

func TestLoggerWarningAndErrorAlwaysShown(t *testing.T) {
	for _, v := range []VerbosityLevel{VerbosityDefault, VerbosityVerbose, VerbosityDebug} {
		var buf bytes.Buffer
		l := NewLoggerWithWriter(v, &buf)
		l.Warning("unresolved import %q", "./missing")
		if !strings.Contains(buf.String(), "Warning:") {
			t.Errorf("verbosity %v: warning not shown", v)
		}

		buf.Reset()
		l.Error("parse failed")
		if !strings.Contains(buf.String(), "Error:") {
			t.Errorf("verbosity %v: error not shown", v)
		}
	}
}

func TestLoggerTiming(t *testing.T) {
	l := NewLogger(VerbosityDefault)

	done := l.StartTiming("phase0")
	time.Sleep(5 * time.Millisecond)
	done()

	if timing := l.GetTiming("phase0"); timing < 5*time.Millisecond {
		t.Errorf("timing too short: %v", timing)
	}
}

func TestLoggerPrintTimingSummary(t *testing.T) {
	tests := []struct {
		name      string
		verbosity VerbosityLevel
		expectOut bool
	}{
		{"default hides summary", VerbosityDefault, false},
		{"verbose shows summary", VerbosityVerbose, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLoggerWithWriter(tt.verbosity, &buf)
			done := l.StartTiming("phase2")
			done()
			l.PrintTimingSummary()

			hasOutput := strings.Contains(buf.String(), "Timing Summary")
			if hasOutput != tt.expectOut {
				t.Errorf("hasOutput: got %v, want %v", hasOutput, tt.expectOut)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00.000"},
		{500 * time.Millisecond, "00:00.500"},
		{1*time.Second + 234*time.Millisecond, "00:01.234"},
		{65*time.Second + 432*time.Millisecond, "01:05.432"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := formatDuration(tt.duration); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLoggerIsVerboseIsDebug(t *testing.T) {
	tests := []struct {
		verbosity   VerbosityLevel
		wantVerbose bool
		wantDebug   bool
	}{
		{VerbosityDefault, false, false},
		{VerbosityVerbose, true, false},
		{VerbosityDebug, true, true},
	}

	for _, tt := range tests {
		l := NewLogger(tt.verbosity)
		if got := l.IsVerbose(); got != tt.wantVerbose {
			t.Errorf("verbosity %v: IsVerbose() = %v, want %v", tt.verbosity, got, tt.wantVerbose)
		}
		if got := l.IsDebug(); got != tt.wantDebug {
			t.Errorf("verbosity %v: IsDebug() = %v, want %v", tt.verbosity, got, tt.wantDebug)
		}
	}
}

func TestLoggerBannerOnlyInVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDefault, &buf)
	l.Banner("v0.1.0")
	if buf.Len() != 0 {
		t.Errorf("expected no banner at default verbosity, got %q", buf.String())
	}

	buf.Reset()
	l = NewLoggerWithWriter(VerbosityVerbose, &buf)
	l.Banner("v0.1.0")
	if !strings.Contains(buf.String(), "semindex") {
		t.Errorf("expected banner to mention semindex, got %q", buf.String())
	}
}

func TestProgressDisabledOnNonTTYWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityVerbose, &buf)
	if l.IsProgressEnabled() {
		t.Error("expected progress disabled for a non-TTY writer")
	}
	if err := l.StartProgress("indexing", 10); err != nil {
		t.Fatalf("StartProgress: %v", err)
	}
	if !strings.Contains(buf.String(), "indexing") {
		t.Errorf("expected description printed in non-TTY mode, got %q", buf.String())
	}
	if err := l.UpdateProgress(1); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if err := l.FinishProgress(); err != nil {
		t.Fatalf("FinishProgress: %v", err)
	}
}

func TestProgressDisabledAtDebugVerbosity(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDebug, &buf)
	l.isTTY = true

	if l.IsProgressEnabled() {
		t.Error("expected progress bar suppressed at debug verbosity")
	}
	if err := l.StartProgress("indexing", 10); err != nil {
		t.Fatalf("StartProgress: %v", err)
	}
	if !strings.Contains(buf.String(), "indexing") {
		t.Errorf("expected description printed instead of a bar, got %q", buf.String())
	}

	buf.Reset()
	if err := l.FinishProgress(); err != nil {
		t.Fatalf("FinishProgress: %v", err)
	}
	if !strings.Contains(buf.String(), "progress finished") {
		t.Errorf("expected debug line on finish, got %q", buf.String())
	}
}
