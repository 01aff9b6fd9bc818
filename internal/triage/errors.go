package triage

import "fmt"

// Failure codes. Token-level problems never surface here; these classify
// patient-level failures and the one fatal startup class.
const (
	CodeExtraction     = "extraction"
	CodeAssembly       = "assembly"
	CodeClassification = "classification"
	CodeTimeout        = "timeout"
	CodeCancelled      = "cancelled"
	CodeConfig         = "config"
)

// Error is a code-tagged error. Config errors are fatal to the whole run;
// every other code is recoverable at patient granularity.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewConfigError marks a startup validation failure. The run must abort
// before any patient is processed.
func NewConfigError(message string, err error) *Error {
	return &Error{Code: CodeConfig, Message: message, Err: err}
}

// FailureRecord is the per-patient terminal failure entry in a run result.
type FailureRecord struct {
	PatientID string
	Stage     string
	Code      string
	Reason    string
}

func (f FailureRecord) String() string {
	return fmt.Sprintf("%s failed at %s: %s", f.PatientID, f.Stage, f.Reason)
}
