package triage

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/clinical-triage/internal/notes"
)

// Runner fans the pipeline out across patients with a bounded worker pool.
// Workers default to 1 (strictly sequential) to bound memory and avoid
// saturating a resource-constrained scoring collaborator.
type Runner struct {
	pipeline *Pipeline
	workers  int
	tracer   trace.Tracer
}

func NewRunner(pipeline *Pipeline, workers int) (*Runner, error) {
	if pipeline == nil {
		return nil, NewConfigError("runner requires a pipeline", nil)
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		pipeline: pipeline,
		workers:  workers,
		tracer:   otel.Tracer("github.com/joelkehle/clinical-triage/internal/triage"),
	}, nil
}

// Run processes every patient and returns one outcome per input patient —
// a verdict or a failure record, never a silently dropped patient. Cancelling
// ctx stops scheduling further patients; patients never scheduled are
// recorded as cancelled.
func (r *Runner) Run(ctx context.Context, patients []notes.PatientRecord) RunResult {
	res := RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Outcomes:  map[string]Outcome{},
	}
	ctx, span := r.tracer.Start(ctx, "triage.run",
		trace.WithAttributes(attribute.String("run.id", res.RunID), attribute.Int("run.patients", len(patients)), attribute.Int("run.workers", r.workers)))
	defer span.End()

	for _, rec := range patients {
		res.Order = append(res.Order, rec.PatientID)
	}

	jobs := make(chan notes.PatientRecord)
	outcomes := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				outcomes <- r.pipeline.ProcessPatient(ctx, rec)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rec := range patients {
			select {
			case <-ctx.Done():
				// Stop scheduling; in-flight patients run out.
				outcomes <- cancelledOutcome(rec.PatientID)
			case jobs <- rec:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		res.Outcomes[outcome.PatientID] = outcome
		if outcome.Failure != nil {
			log.Printf("patient %s failed (%s): %s", outcome.PatientID, outcome.Failure.Code, outcome.Failure.Reason)
		} else {
			log.Printf("patient %s classified: %s", outcome.PatientID, outcome.Verdict.Decision)
		}
	}

	res.CompletedAt = time.Now()
	span.SetAttributes(attribute.Int("run.failures", res.FailureCount()))
	return res
}

func cancelledOutcome(patientID string) Outcome {
	return Outcome{
		PatientID: patientID,
		State:     StateFailed,
		Failure: &FailureRecord{
			PatientID: patientID,
			Stage:     StateLoaded,
			Code:      CodeCancelled,
			Reason:    "run cancelled before patient was scheduled",
		},
	}
}

// FailureCount reports how many patients ended in a failure record.
func (r RunResult) FailureCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failure != nil {
			n++
		}
	}
	return n
}

// VerdictCount reports how many patients ended with a verdict.
func (r RunResult) VerdictCount() int {
	return len(r.Outcomes) - r.FailureCount()
}
