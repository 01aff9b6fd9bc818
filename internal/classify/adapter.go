package classify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Verdict is the classification outcome for one patient. Created once per
// pipeline run, never mutated.
type Verdict struct {
	PatientID     string
	RawLabel      string
	RawConfidence float64
	Decision      Decision
	Reason        string
}

// Failure wraps any scoring error (transport failure, timeout, unrecognized
// label) with the patient it belongs to. The adapter never substitutes a
// default verdict for a failed classification.
type Failure struct {
	PatientID string
	Err       error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("classification failed for %s: %v", f.PatientID, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsTimeout reports whether the underlying cause was a deadline expiry.
func (f *Failure) IsTimeout() bool {
	return errors.Is(f.Err, context.DeadlineExceeded)
}

// Adapter sends condensed documents to the scoring collaborator and maps raw
// model output to a domain verdict through the configured policy.
type Adapter struct {
	scorer  Scorer
	policy  *Policy
	timeout time.Duration
}

// NewAdapter wires a scorer and a policy. timeout bounds each scoring call;
// it must be positive so no classification can block indefinitely. The scorer
// is treated as a shared, possibly stateful resource: calls are serialized
// unless the scorer reports itself safe for concurrent use.
func NewAdapter(scorer Scorer, policy *Policy, timeout time.Duration) (*Adapter, error) {
	if scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	scorer = SerializeUnlessSafe(scorer)
	if policy == nil {
		return nil, fmt.Errorf("decision policy is required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("classification timeout must be positive, got %v", timeout)
	}
	return &Adapter{scorer: scorer, policy: policy, timeout: timeout}, nil
}

// Classify scores fullText and produces the patient's verdict. Any scorer
// error, out-of-range confidence, or unrecognized label comes back as a
// *Failure carrying the patient id.
func (a *Adapter) Classify(ctx context.Context, patientID, fullText string) (Verdict, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	score, err := a.scorer.Score(callCtx, fullText)
	if err != nil {
		if callCtx.Err() != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timeout after %v: %w", a.timeout, context.DeadlineExceeded)
		}
		return Verdict{}, &Failure{PatientID: patientID, Err: err}
	}
	if score.Confidence < 0 || score.Confidence > 1 {
		return Verdict{}, &Failure{PatientID: patientID, Err: fmt.Errorf("confidence %v outside [0,1]", score.Confidence)}
	}

	decision, reason, err := a.policy.Decide(score.Label, score.Confidence)
	if err != nil {
		return Verdict{}, &Failure{PatientID: patientID, Err: err}
	}
	return Verdict{
		PatientID:     patientID,
		RawLabel:      score.Label,
		RawConfidence: score.Confidence,
		Decision:      decision,
		Reason:        reason,
	}, nil
}
