package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/joelkehle/clinical-triage/internal/triage"
)

// BuildMarkdown renders a run summary: header, per-patient verdict table,
// failure details.
func BuildMarkdown(res triage.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Patient Follow-up Triage Report\n\n")
	fmt.Fprintf(&b, "- Run ID: %s\n", res.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", res.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Completed: %s\n", res.CompletedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Patients: %d (verdicts: %d, failures: %d)\n\n",
		len(res.Outcomes), res.VerdictCount(), res.FailureCount())

	fmt.Fprintf(&b, "## Verdicts\n\n")
	fmt.Fprintf(&b, "| Patient | Decision | Label | Confidence | Reason |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	for _, patientID := range res.Order {
		outcome, ok := res.Outcomes[patientID]
		if !ok || outcome.Verdict == nil {
			continue
		}
		v := outcome.Verdict
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %s |\n",
			patientID, v.Decision, v.RawLabel, v.RawConfidence, v.Reason)
	}
	b.WriteString("\n")

	if res.FailureCount() > 0 {
		fmt.Fprintf(&b, "## Failures\n\n")
		for _, patientID := range res.Order {
			outcome, ok := res.Outcomes[patientID]
			if !ok || outcome.Failure == nil {
				continue
			}
			fmt.Fprintf(&b, "- **%s** (`%s`): %s\n", patientID, outcome.Failure.Code, outcome.Failure.Reason)
		}
		b.WriteString("\n")
	}

	truncated := 0
	for _, outcome := range res.Outcomes {
		if outcome.Document != nil && outcome.Document.Truncated {
			truncated++
		}
	}
	if truncated > 0 {
		fmt.Fprintf(&b, "## Notes\n\n%d condensed document(s) were truncated to the configured length budget; observation summaries were kept intact.\n", truncated)
	}
	return b.String()
}
