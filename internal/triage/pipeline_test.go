package triage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/clinical-triage/internal/classify"
	"github.com/joelkehle/clinical-triage/internal/condense"
	"github.com/joelkehle/clinical-triage/internal/notes"
)

func testAssembler(t *testing.T) *condense.Assembler {
	t.Helper()
	extractor, err := condense.NewLabExtractor(condense.DefaultObservationNames)
	if err != nil {
		t.Fatalf("NewLabExtractor: %v", err)
	}
	assembler, err := condense.NewAssembler(extractor, 4000, false)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	return assembler
}

func testPipeline(t *testing.T, scorer classify.Scorer, timeout time.Duration) *Pipeline {
	t.Helper()
	adapter, err := classify.NewAdapter(scorer, classify.DefaultPolicy(), timeout)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	pipeline, err := NewPipeline(testAssembler(t), adapter)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return pipeline
}

func patient(id string, texts ...string) notes.PatientRecord {
	rec := notes.PatientRecord{PatientID: id}
	for i, text := range texts {
		rec.Notes = append(rec.Notes, notes.Note{PatientID: id, NoteID: "n", RawText: text, SourceOrder: i})
	}
	return rec
}

func TestProcessPatientRecordsVerdict(t *testing.T) {
	scorer := classify.ScorerFunc(func(context.Context, string) (classify.Score, error) {
		return classify.Score{Label: "POSITIVE", Confidence: 0.95}, nil
	})
	p := testPipeline(t, scorer, time.Second)

	outcome := p.ProcessPatient(context.Background(), patient("patient_001",
		"Patient feels fine. Blood Count: 300.",
		"Patient feels fine. Hemoglobin: 12.",
	))
	if outcome.State != StateRecorded {
		t.Fatalf("state = %s, want %s", outcome.State, StateRecorded)
	}
	if outcome.Verdict == nil || outcome.Verdict.Decision != classify.NoFollowUp {
		t.Fatalf("unexpected verdict: %+v", outcome.Verdict)
	}
	if outcome.Document == nil {
		t.Fatal("expected condensed document on success")
	}
	if got := strings.Count(outcome.Document.DeduplicatedText, "Patient feels fine."); got != 1 {
		t.Fatalf("shared sentence appears %d times", got)
	}
}

func TestProcessPatientEmptyNotesFailsAtAssembly(t *testing.T) {
	scorer := classify.ScorerFunc(func(context.Context, string) (classify.Score, error) {
		t.Fatal("scorer must not be called when assembly fails")
		return classify.Score{}, nil
	})
	p := testPipeline(t, scorer, time.Second)

	outcome := p.ProcessPatient(context.Background(), patient("patient_001"))
	if outcome.State != StateFailed {
		t.Fatalf("state = %s, want %s", outcome.State, StateFailed)
	}
	if outcome.Failure == nil || outcome.Failure.Code != CodeAssembly {
		t.Fatalf("unexpected failure: %+v", outcome.Failure)
	}
	if outcome.Verdict != nil {
		t.Fatal("failed patient must not carry a verdict")
	}
}

func TestProcessPatientScorerErrorFails(t *testing.T) {
	scorer := classify.ScorerFunc(func(context.Context, string) (classify.Score, error) {
		return classify.Score{}, errors.New("model exploded")
	})
	p := testPipeline(t, scorer, time.Second)

	outcome := p.ProcessPatient(context.Background(), patient("patient_001", "Stable visit."))
	if outcome.Failure == nil || outcome.Failure.Code != CodeClassification {
		t.Fatalf("unexpected failure: %+v", outcome.Failure)
	}
}

func TestProcessPatientTimeoutCode(t *testing.T) {
	scorer := classify.ScorerFunc(func(ctx context.Context, _ string) (classify.Score, error) {
		<-ctx.Done()
		return classify.Score{}, ctx.Err()
	})
	p := testPipeline(t, scorer, 10*time.Millisecond)

	outcome := p.ProcessPatient(context.Background(), patient("patient_001", "Stable visit."))
	if outcome.Failure == nil || outcome.Failure.Code != CodeTimeout {
		t.Fatalf("unexpected failure: %+v", outcome.Failure)
	}
	if !strings.HasPrefix(outcome.Failure.Reason, "timeout") {
		t.Fatalf("timeout reason = %q", outcome.Failure.Reason)
	}
}
