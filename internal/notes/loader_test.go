package notes

import (
	"os"
	"path/filepath"
	"testing"
)

func writeNote(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
}

func TestLoadPatientOrdersNotesLexically(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "patient_001")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeNote(t, dir, "note_02.txt", "second")
	writeNote(t, dir, "note_01.txt", "first")
	writeNote(t, dir, "ignore.md", "not a note")

	rec, err := LoadPatient(root, "patient_001")
	if err != nil {
		t.Fatalf("LoadPatient: %v", err)
	}
	if len(rec.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(rec.Notes))
	}
	if rec.Notes[0].NoteID != "note_01" || rec.Notes[0].RawText != "first" {
		t.Fatalf("unexpected first note: %+v", rec.Notes[0])
	}
	if rec.Notes[0].SourceOrder != 0 || rec.Notes[1].SourceOrder != 1 {
		t.Fatal("source order must follow lexical note order")
	}
}

func TestLoadPatientsSkipsFilesAtRoot(t *testing.T) {
	root := t.TempDir()
	for _, id := range []string{"patient_002", "patient_001"} {
		if err := os.MkdirAll(filepath.Join(root, id), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeNote(t, root, "stray.txt", "stray")

	patients, err := LoadPatients(root)
	if err != nil {
		t.Fatalf("LoadPatients: %v", err)
	}
	if len(patients) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(patients))
	}
	if patients[0].PatientID != "patient_001" {
		t.Fatalf("expected sorted patient ids, got %s first", patients[0].PatientID)
	}
}

func TestLoadPatientEmptyDirYieldsEmptyNoteSet(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "patient_001"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	rec, err := LoadPatient(root, "patient_001")
	if err != nil {
		t.Fatalf("LoadPatient: %v", err)
	}
	if len(rec.Notes) != 0 {
		t.Fatalf("expected no notes, got %d", len(rec.Notes))
	}
}

func TestSimulateWritesLoadablePatients(t *testing.T) {
	root := t.TempDir()
	ids, err := Simulate(root, SimulatorConfig{Patients: 2, NotesPer: 3, SentencesPer: 4, Seed: 42})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 patient ids, got %d", len(ids))
	}
	patients, err := LoadPatients(root)
	if err != nil {
		t.Fatalf("LoadPatients: %v", err)
	}
	if len(patients) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(patients))
	}
	for _, p := range patients {
		if len(p.Notes) != 3 {
			t.Fatalf("patient %s: expected 3 notes, got %d", p.PatientID, len(p.Notes))
		}
	}
}
