package report

import (
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/clinical-triage/internal/classify"
	"github.com/joelkehle/clinical-triage/internal/condense"
	"github.com/joelkehle/clinical-triage/internal/triage"
)

func sampleRun() triage.RunResult {
	return triage.RunResult{
		RunID:       "run-1",
		StartedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC),
		Order:       []string{"patient_001", "patient_002"},
		Outcomes: map[string]triage.Outcome{
			"patient_001": {
				PatientID: "patient_001",
				State:     triage.StateRecorded,
				Verdict: &classify.Verdict{
					PatientID:     "patient_001",
					RawLabel:      "POSITIVE",
					RawConfidence: 0.95,
					Decision:      classify.NoFollowUp,
					Reason:        "POSITIVE at 0.95 >= 0.80 threshold",
				},
				Document: &condense.Document{PatientID: "patient_001", FullText: "Stable.", Truncated: true},
			},
			"patient_002": {
				PatientID: "patient_002",
				State:     triage.StateFailed,
				Failure: &triage.FailureRecord{
					PatientID: "patient_002",
					Stage:     triage.StateAssembled,
					Code:      triage.CodeTimeout,
					Reason:    "timeout: context deadline exceeded",
				},
			},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(sampleRun())
	for _, want := range []string{
		"# Patient Follow-up Triage Report",
		"Run ID: run-1",
		"| patient_001 | No Follow-up | POSITIVE | 0.95 |",
		"**patient_002** (`timeout`)",
		"1 condensed document(s) were truncated",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestBuildMarkdownNoFailureSection(t *testing.T) {
	res := sampleRun()
	delete(res.Outcomes, "patient_002")
	res.Order = []string{"patient_001"}
	md := BuildMarkdown(res)
	if strings.Contains(md, "## Failures") {
		t.Fatal("failure section rendered for a clean run")
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(BuildMarkdown(sampleRun()))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<table>") {
		t.Fatalf("expected rendered heading and GFM table:\n%s", html)
	}
	if !strings.Contains(html, "patient_001") {
		t.Fatal("expected patient rows in html")
	}
}
