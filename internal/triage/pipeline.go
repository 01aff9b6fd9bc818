package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/clinical-triage/internal/classify"
	"github.com/joelkehle/clinical-triage/internal/condense"
	"github.com/joelkehle/clinical-triage/internal/notes"
)

// Per-patient states: Loaded -> Assembled -> Classified -> Recorded, or
// Failed at any step.
const (
	StateLoaded     = "loaded"
	StateAssembled  = "assembled"
	StateClassified = "classified"
	StateRecorded   = "recorded"
	StateFailed     = "failed"
)

// Outcome is the terminal entry for one patient: exactly one of Verdict or
// Failure is set. Document is kept for persistence when assembly succeeded.
type Outcome struct {
	PatientID string
	State     string
	Verdict   *classify.Verdict
	Failure   *FailureRecord
	Document  *condense.Document
}

// RunResult maps every input patient to its outcome. Order preserves the
// input patient order for deterministic persistence and reporting.
type RunResult struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Order       []string
	Outcomes    map[string]Outcome
}

// Pipeline condenses and classifies a single patient. Each call builds fresh
// per-patient state; nothing is shared across patients.
type Pipeline struct {
	assembler *condense.Assembler
	adapter   *classify.Adapter
	tracer    trace.Tracer
}

func NewPipeline(assembler *condense.Assembler, adapter *classify.Adapter) (*Pipeline, error) {
	if assembler == nil || adapter == nil {
		return nil, NewConfigError("pipeline requires an assembler and an adapter", nil)
	}
	return &Pipeline{
		assembler: assembler,
		adapter:   adapter,
		tracer:    otel.Tracer("github.com/joelkehle/clinical-triage/internal/triage"),
	}, nil
}

// ProcessPatient runs one patient through assemble -> classify. Failures are
// converted to FailureRecords here so a single patient can never abort the
// run.
func (p *Pipeline) ProcessPatient(ctx context.Context, rec notes.PatientRecord) Outcome {
	ctx, span := p.tracer.Start(ctx, "triage.patient",
		trace.WithAttributes(attribute.String("patient.id", rec.PatientID), attribute.Int("patient.notes", len(rec.Notes))))
	defer span.End()

	doc, err := p.assembler.Condense(rec)
	if err != nil {
		span.SetAttributes(attribute.String("triage.failure", CodeAssembly))
		return Outcome{
			PatientID: rec.PatientID,
			State:     StateFailed,
			Failure: &FailureRecord{
				PatientID: rec.PatientID,
				Stage:     StateLoaded,
				Code:      CodeAssembly,
				Reason:    err.Error(),
			},
		}
	}
	span.SetAttributes(attribute.Bool("document.truncated", doc.Truncated))

	verdict, err := p.adapter.Classify(ctx, rec.PatientID, doc.FullText)
	if err != nil {
		code := CodeClassification
		reason := err.Error()
		var failure *classify.Failure
		if errors.As(err, &failure) && failure.IsTimeout() {
			code = CodeTimeout
			reason = fmt.Sprintf("timeout: %v", failure.Err)
		}
		span.SetAttributes(attribute.String("triage.failure", code))
		return Outcome{
			PatientID: rec.PatientID,
			State:     StateFailed,
			Document:  &doc,
			Failure: &FailureRecord{
				PatientID: rec.PatientID,
				Stage:     StateAssembled,
				Code:      code,
				Reason:    reason,
			},
		}
	}

	span.SetAttributes(attribute.String("triage.decision", string(verdict.Decision)))
	return Outcome{
		PatientID: rec.PatientID,
		State:     StateRecorded,
		Verdict:   &verdict,
		Document:  &doc,
	}
}
