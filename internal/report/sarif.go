// Package report exports resolver diagnostics as SARIF 2.1.0, grounded
// on the teacher's SARIFFormatter: one "unresolved-reference" rule,
// one result per call Phase 2 could not resolve to any candidate
// symbol, so CI tooling that already consumes SARIF (GitHub code
// scanning, most editors) can surface dangling references the same way
// it surfaces lint findings.
package report

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/shivasurya/semindex/internal/resolve"
)

const unresolvedReferenceRuleID = "unresolved-reference"

// SARIFFormatter writes resolver diagnostics as a SARIF log to writer.
type SARIFFormatter struct {
	writer io.Writer
}

// NewSARIFFormatter creates a formatter writing to w.
func NewSARIFFormatter(w io.Writer) *SARIFFormatter {
	return &SARIFFormatter{writer: w}
}

// Format emits one SARIF run covering every unresolved call in calls
// (a CallReference with zero Resolutions). Resolved calls are not
// reported — this is a diagnostics export, not a full call graph dump.
func (f *SARIFFormatter) Format(calls []*resolve.CallReference, toolName string) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI(toolName, "")
	run.AddRule(unresolvedReferenceRuleID).
		WithDescription("A call or constructor reference that Phase 2 could not resolve to any known definition.").
		WithName("UnresolvedReference").
		WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("warning"))

	for _, call := range calls {
		if len(call.Resolutions) > 0 {
			continue
		}
		f.addResult(call, run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (f *SARIFFormatter) addResult(call *resolve.CallReference, run *sarif.Run) {
	message := "unresolved " + string(call.CallType) + " call to " + string(call.Name)

	region := sarif.NewRegion().WithStartLine(call.Location.StartLine)
	if call.Location.StartColumn > 0 {
		region.WithStartColumn(call.Location.StartColumn)
	}

	location := sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(string(call.Location.FilePath))).
			WithRegion(region),
	)

	result := run.CreateResultForRule(unresolvedReferenceRuleID).
		WithMessage(sarif.NewTextMessage(message))
	result.AddLocation(location)
}
