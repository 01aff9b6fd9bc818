package results

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/clinical-triage/internal/classify"
	"github.com/joelkehle/clinical-triage/internal/condense"
	"github.com/joelkehle/clinical-triage/internal/triage"
)

// Store persists run history to SQLite with write-through semantics. One run
// row per orchestration pass, one outcome row per patient.
type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	patients     INTEGER NOT NULL DEFAULT 0,
	failures     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outcomes (
	run_id        TEXT NOT NULL,
	patient_id    TEXT NOT NULL,
	position      INTEGER NOT NULL,
	state         TEXT NOT NULL,
	decision      TEXT NOT NULL DEFAULT '',
	raw_label     TEXT NOT NULL DEFAULT '',
	raw_confidence REAL NOT NULL DEFAULT 0,
	reason        TEXT NOT NULL DEFAULT '',
	failure_code  TEXT NOT NULL DEFAULT '',
	failure_reason TEXT NOT NULL DEFAULT '',
	condensed_text TEXT NOT NULL DEFAULT '',
	truncated     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, patient_id)
);
`

func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun writes the run row and every patient outcome in one transaction.
func (s *Store) SaveRun(res triage.RunResult) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, started_at, completed_at, patients, failures) VALUES (?, ?, ?, ?, ?)`,
		res.RunID,
		res.StartedAt.Format(time.RFC3339Nano),
		res.CompletedAt.Format(time.RFC3339Nano),
		len(res.Outcomes),
		res.FailureCount(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for pos, patientID := range res.Order {
		outcome, ok := res.Outcomes[patientID]
		if !ok {
			continue
		}
		row := outcomeRow{RunID: res.RunID, PatientID: patientID, Position: pos, State: outcome.State}
		if outcome.Verdict != nil {
			row.Decision = string(outcome.Verdict.Decision)
			row.RawLabel = outcome.Verdict.RawLabel
			row.RawConfidence = outcome.Verdict.RawConfidence
			row.Reason = outcome.Verdict.Reason
		}
		if outcome.Failure != nil {
			row.FailureCode = outcome.Failure.Code
			row.FailureReason = outcome.Failure.Reason
		}
		if outcome.Document != nil {
			row.CondensedText = outcome.Document.FullText
			if outcome.Document.Truncated {
				row.Truncated = 1
			}
		}
		_, err := tx.NamedExec(`INSERT INTO outcomes
			(run_id, patient_id, position, state, decision, raw_label, raw_confidence, reason, failure_code, failure_reason, condensed_text, truncated)
			VALUES (:run_id, :patient_id, :position, :state, :decision, :raw_label, :raw_confidence, :reason, :failure_code, :failure_reason, :condensed_text, :truncated)`, row)
		if err != nil {
			return fmt.Errorf("insert outcome %s: %w", patientID, err)
		}
	}
	return tx.Commit()
}

type outcomeRow struct {
	RunID         string  `db:"run_id"`
	PatientID     string  `db:"patient_id"`
	Position      int     `db:"position"`
	State         string  `db:"state"`
	Decision      string  `db:"decision"`
	RawLabel      string  `db:"raw_label"`
	RawConfidence float64 `db:"raw_confidence"`
	Reason        string  `db:"reason"`
	FailureCode   string  `db:"failure_code"`
	FailureReason string  `db:"failure_reason"`
	CondensedText string  `db:"condensed_text"`
	Truncated     int     `db:"truncated"`
}

// RunSummary is one stored run's header row.
type RunSummary struct {
	RunID       string `db:"run_id"`
	StartedAt   string `db:"started_at"`
	CompletedAt string `db:"completed_at"`
	Patients    int    `db:"patients"`
	Failures    int    `db:"failures"`
}

// ListRuns returns stored runs newest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	var runs []RunSummary
	if err := s.db.Select(&runs, `SELECT run_id, started_at, completed_at, patients, failures FROM runs ORDER BY started_at DESC`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LoadRun rebuilds a RunResult from storage. Condensed text and verdict
// fields round-trip; per-patient input order is restored from positions.
func (s *Store) LoadRun(runID string) (triage.RunResult, error) {
	var run RunSummary
	if err := s.db.Get(&run, `SELECT run_id, started_at, completed_at, patients, failures FROM runs WHERE run_id = ?`, runID); err != nil {
		return triage.RunResult{}, fmt.Errorf("load run %s: %w", runID, err)
	}
	var rows []outcomeRow
	if err := s.db.Select(&rows, `SELECT run_id, patient_id, position, state, decision, raw_label, raw_confidence, reason, failure_code, failure_reason, condensed_text, truncated FROM outcomes WHERE run_id = ? ORDER BY position`, runID); err != nil {
		return triage.RunResult{}, fmt.Errorf("load outcomes %s: %w", runID, err)
	}

	res := triage.RunResult{RunID: run.RunID, Outcomes: map[string]triage.Outcome{}}
	res.StartedAt, _ = time.Parse(time.RFC3339Nano, run.StartedAt)
	res.CompletedAt, _ = time.Parse(time.RFC3339Nano, run.CompletedAt)
	for _, row := range rows {
		res.Order = append(res.Order, row.PatientID)
		res.Outcomes[row.PatientID] = row.toOutcome()
	}
	return res, nil
}

func (r outcomeRow) toOutcome() triage.Outcome {
	outcome := triage.Outcome{PatientID: r.PatientID, State: r.State}
	if r.FailureCode != "" {
		outcome.Failure = &triage.FailureRecord{
			PatientID: r.PatientID,
			Stage:     r.State,
			Code:      r.FailureCode,
			Reason:    r.FailureReason,
		}
	} else {
		outcome.Verdict = &classify.Verdict{
			PatientID:     r.PatientID,
			RawLabel:      r.RawLabel,
			RawConfidence: r.RawConfidence,
			Decision:      classify.Decision(r.Decision),
			Reason:        r.Reason,
		}
	}
	if r.CondensedText != "" {
		outcome.Document = &condense.Document{
			PatientID: r.PatientID,
			FullText:  r.CondensedText,
			Truncated: r.Truncated != 0,
		}
	}
	return outcome
}
