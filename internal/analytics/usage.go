// Package analytics reports opt-out anonymous usage events, mirroring
// the teacher's analytics package: a UUID-per-install distinct id stored
// in a dotfile, and a PostHog capture per command the CLI runs.
package analytics

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
)

const (
	IndexCommand       = "executed_index_command"
	ResolveCommand     = "executed_resolve_command"
	QueryCommand       = "executed_query_command"
	WatchCommand       = "executed_watch_command"
	ServeCommand       = "executed_serve_command"
	ErrorIndexingFile  = "error_indexing_file"
	ErrorResolvingCall = "error_resolving_call"
)

var (
	// PublicKey is the PostHog project write key, set at build time via
	// -ldflags. Empty disables reporting even when metrics are enabled.
	PublicKey string

	enableMetrics bool
	distinctID    string
)

// Init enables or disables reporting and stores installID as the
// per-install distinct id used to group events without identifying a
// person (config.Load creates and persists that id).
func Init(disableMetrics bool, installID string) {
	enableMetrics = !disableMetrics
	distinctID = installID
}

// NewInstallID generates a fresh anonymous distinct id.
func NewInstallID() string {
	return uuid.New().String()
}

// ReportEvent sends a single named event, silently doing nothing when
// metrics are disabled or no PublicKey is configured. Failures are
// logged to stderr, never surfaced as an error to the caller — telemetry
// must never affect command success.
func ReportEvent(event string) {
	ReportEventWithProperties(event, nil)
}

// ReportEventWithProperties is ReportEvent with additional event
// properties (e.g. language, file count).
func ReportEventWithProperties(event string, properties map[string]interface{}) {
	if !enableMetrics || PublicKey == "" {
		return
	}
	client, err := posthog.NewWithConfig(PublicKey, posthog.Config{Endpoint: "https://us.i.posthog.com"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "analytics:", err)
		return
	}
	defer client.Close()

	capture := posthog.Capture{DistinctId: distinctID, Event: event}
	if len(properties) > 0 {
		capture.Properties = posthog.NewProperties()
		for k, v := range properties {
			capture.Properties.Set(k, v)
		}
	}
	if err := client.Enqueue(capture); err != nil {
		fmt.Fprintln(os.Stderr, "analytics:", err)
	}
}
