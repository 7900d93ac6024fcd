// Package output provides verbosity-controlled logging for the semindex
// CLI, mirroring the teacher's output package: progress/statistic lines
// shown in verbose mode, debug lines prefixed with elapsed time, and
// warnings/errors always shown. Output always goes to stderr so stdout
// stays clean for index/JSON/SARIF results.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Logger is the project's structured console logger.
type Logger struct {
	verbosity VerbosityLevel
	writer    io.Writer
	startTime time.Time
	timings   map[string]time.Duration
	colorize  bool

	isTTY        bool
	progressBar  *progressbar.ProgressBar
	showProgress bool
}

// NewLogger creates a logger writing to stderr at the given verbosity.
func NewLogger(verbosity VerbosityLevel) *Logger {
	return newLogger(verbosity, os.Stderr, isTTY(os.Stderr))
}

// NewLoggerWithWriter creates a logger over a custom writer, primarily
// for tests; color is always disabled for non-TTY writers.
func NewLoggerWithWriter(verbosity VerbosityLevel, w io.Writer) *Logger {
	return newLogger(verbosity, w, false)
}

func newLogger(verbosity VerbosityLevel, w io.Writer, colorize bool) *Logger {
	isTTY := colorize
	return &Logger{
		verbosity:    verbosity,
		writer:       w,
		startTime:    time.Now(),
		timings:      make(map[string]time.Duration),
		colorize:     colorize,
		isTTY:        isTTY,
		showProgress: isTTY,
	}
}

func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// Banner prints the startup banner (verbose mode only), styled with
// color when the writer is a terminal.
func (l *Logger) Banner(version string) {
	if l.verbosity < VerbosityVerbose {
		return
	}
	title := "semindex"
	if l.colorize {
		title = color.New(color.FgCyan, color.Bold).Sprint(title)
	}
	fmt.Fprintf(l.writer, "%s %s — semantic index and cross-reference resolver\n", title, version)
}

// Progress logs a high-level progress line (verbose and debug).
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Statistic logs a count/metric line (verbose and debug).
func (l *Logger) Statistic(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs a debug diagnostic with an elapsed-time prefix (debug only).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDebug {
		prefix := formatDuration(time.Since(l.startTime))
		fmt.Fprintf(l.writer, "[%s] %s\n", prefix, fmt.Sprintf(format, args...))
	}
}

// Warning always prints.
func (l *Logger) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.colorize {
		msg = color.New(color.FgYellow).Sprint(msg)
	}
	fmt.Fprintf(l.writer, "Warning: %s\n", msg)
}

// Error always prints.
func (l *Logger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.colorize {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	fmt.Fprintf(l.writer, "Error: %s\n", msg)
}

// StartTiming begins timing a named operation; call the returned func
// when the operation completes.
func (l *Logger) StartTiming(name string) func() {
	start := time.Now()
	return func() {
		l.timings[name] = time.Since(start)
	}
}

// GetTiming returns the duration recorded for name, or zero if unset.
func (l *Logger) GetTiming(name string) time.Duration {
	return l.timings[name]
}

// PrintTimingSummary prints every recorded timing (verbose mode only).
func (l *Logger) PrintTimingSummary() {
	if l.verbosity < VerbosityVerbose || len(l.timings) == 0 {
		return
	}
	fmt.Fprintln(l.writer, "\nTiming Summary:")
	for name, d := range l.timings {
		fmt.Fprintf(l.writer, "  %s: %s\n", name, d.Round(time.Millisecond))
	}
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// Verbosity returns the logger's configured level.
func (l *Logger) Verbosity() VerbosityLevel { return l.verbosity }

// IsVerbose reports whether verbose-or-above output is enabled.
func (l *Logger) IsVerbose() bool { return l.verbosity >= VerbosityVerbose }

// IsDebug reports whether debug output is enabled.
func (l *Logger) IsDebug() bool { return l.verbosity >= VerbosityDebug }

// progressBarWidth and progressBarThrottle are shared between the
// spinner and percentage-bar variants StartProgress builds.
const (
	progressBarWidth    = 40
	progressBarThrottle = 65 * time.Millisecond
)

// wantsRenderedProgress reports whether a progress bar should actually
// render: it needs a terminal, StartProgress-level desire, and must not
// be debug verbosity, since Debug already prints one elapsed-time-prefixed
// line per operation and a bar fighting those lines for the same
// terminal row produces garbled output.
func (l *Logger) wantsRenderedProgress() bool {
	return l.showProgress && l.isTTY && l.verbosity < VerbosityDebug
}

// StartProgress begins a progress indicator for a long-running operation
// such as indexing a file set. total < 0 shows an indeterminate spinner;
// total > 0 shows a percentage bar. Falls back to a single Progress line
// when no bar will actually render (non-TTY, or debug verbosity, where
// Debug's own per-operation lines already carry this information).
func (l *Logger) StartProgress(description string, total int) error {
	if !l.wantsRenderedProgress() {
		l.Progress("%s...", description)
		return nil
	}

	if l.progressBar != nil {
		_ = l.progressBar.Finish()
	}

	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetWidth(progressBarWidth),
		progressbar.OptionThrottle(progressBarThrottle),
		progressbar.OptionOnCompletion(func() { fmt.Fprintf(l.writer, "\n") }),
	}
	if total < 0 {
		opts = append(opts, progressbar.OptionSpinnerType(14))
	} else {
		opts = append(opts, progressbar.OptionShowCount(), progressbar.OptionSetRenderBlankState(true))
	}
	l.progressBar = progressbar.NewOptions(total, opts...)

	return nil
}

// UpdateProgress advances the progress bar by delta.
func (l *Logger) UpdateProgress(delta int) error {
	if !l.wantsRenderedProgress() || l.progressBar == nil {
		return nil
	}
	return l.progressBar.Add(delta)
}

// FinishProgress completes and clears the progress bar. At debug
// verbosity, where no bar was rendered, this instead emits the elapsed
// time since the logger started via Debug, matching the per-operation
// granularity the rest of debug output already uses.
func (l *Logger) FinishProgress() error {
	if l.verbosity >= VerbosityDebug {
		l.Debug("progress finished")
		return nil
	}
	if !l.wantsRenderedProgress() || l.progressBar == nil {
		return nil
	}
	err := l.progressBar.Finish()
	l.progressBar = nil
	return err
}

// IsProgressEnabled reports whether a progress bar will actually render.
func (l *Logger) IsProgressEnabled() bool {
	return l.wantsRenderedProgress()
}
