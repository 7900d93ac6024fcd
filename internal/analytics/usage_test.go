package analytics

import "testing"

func TestReportEventNoopWithoutPublicKey(t *testing.T) {
	PublicKey = ""
	Init(false, "test-install")

	// Must not panic or block when no PublicKey is configured.
	ReportEvent(IndexCommand)
}

func TestReportEventNoopWhenMetricsDisabled(t *testing.T) {
	PublicKey = "phc_test"
	Init(true, "test-install")
	defer func() { PublicKey = "" }()

	ReportEvent(IndexCommand)
}

func TestNewInstallIDIsUnique(t *testing.T) {
	a := NewInstallID()
	b := NewInstallID()
	if a == b {
		t.Error("expected distinct install ids")
	}
	if a == "" {
		t.Error("expected non-empty install id")
	}
}
