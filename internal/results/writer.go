package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joelkehle/clinical-triage/internal/triage"
)

// WriteResults renders one line per patient to a plain-text results file:
// "<patient_id>: <decision>" for verdicts, "<patient_id>: ERROR - <reason>"
// for failures. Written atomically via a temp file.
func WriteResults(path string, res triage.RunResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Patient Follow-up Classification Results ---\n")
	fmt.Fprintf(&b, "Run: %s\n\n", res.RunID)
	for _, patientID := range res.Order {
		outcome, ok := res.Outcomes[patientID]
		if !ok {
			continue
		}
		if outcome.Failure != nil {
			fmt.Fprintf(&b, "%s: ERROR - %s\n", patientID, outcome.Failure.Reason)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", patientID, outcome.Verdict.Decision)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return os.Rename(tmp, path)
}

// WriteCondensedNotes saves every successfully assembled patient document
// under dir as <patient_id>_condensed.txt.
func WriteCondensedNotes(dir string, res triage.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create condensed notes dir: %w", err)
	}
	for _, patientID := range res.Order {
		outcome := res.Outcomes[patientID]
		if outcome.Document == nil {
			continue
		}
		path := filepath.Join(dir, patientID+"_condensed.txt")
		if err := os.WriteFile(path, []byte(outcome.Document.FullText), 0o644); err != nil {
			return fmt.Errorf("write condensed note %s: %w", patientID, err)
		}
	}
	return nil
}
