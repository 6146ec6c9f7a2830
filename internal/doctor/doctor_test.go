package doctor

import (
	"testing"
)

// stubCheck returns a fixed result, for exercising the runner.
type stubCheck struct {
	name   string
	status Severity
}

func (c *stubCheck) Name() string     { return c.name }
func (c *stubCheck) Category() string { return "test" }
func (c *stubCheck) Run() *CheckResult {
	return &CheckResult{Name: c.name, Category: "test", Status: c.status}
}

func TestRunnerAggregatesResults(t *testing.T) {
	runner := NewRunner()
	runner.AddCheck(&stubCheck{name: "a", status: SeverityPass})
	runner.AddCheck(&stubCheck{name: "b", status: SeverityWarning})
	runner.AddCheck(&stubCheck{name: "c", status: SeverityError})
	runner.AddCheck(&stubCheck{name: "d", status: SeverityInfo})

	report := runner.Run()

	if len(report.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(report.Results))
	}
	if report.Summary.Passed != 1 || report.Summary.Warnings != 1 ||
		report.Summary.Errors != 1 || report.Summary.Info != 1 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
	if !report.HasErrors() {
		t.Error("expected HasErrors")
	}
	if !report.HasWarnings() {
		t.Error("expected HasWarnings")
	}
	if report.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestRunnerEmptyReport(t *testing.T) {
	report := NewRunner().Run()

	if report.HasErrors() || report.HasWarnings() {
		t.Error("empty report should have no errors or warnings")
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityPass, "pass"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
